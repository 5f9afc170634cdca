package service

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gearbook/dao/model"
	"gearbook/engine"
	"gearbook/logutils"
	"gearbook/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
	co *engine.Coordinator
}

func RegisterProjects(r gin.IRouter, db *gorm.DB, co *engine.Coordinator) {
	s := &ProjectService{db: db, co: co}
	r.GET("/projects", s.List)
	r.GET("/projects/:id", s.Get)
	r.POST("/projects", s.Create)
	r.PUT("/projects/:id", s.Update)
	r.DELETE("/projects/:id", s.Delete)
	r.PATCH("/projects/:id/confirm", s.Confirm)
}

// ProjectReq is the single accepted shape for create and update. Unknown
// aliases for the interval fields are rejected, not coerced.
type ProjectReq struct {
	Title          string       `json:"title" binding:"required"`
	ClientName     string       `json:"client_name"`
	Venue          string       `json:"venue"`
	PersonInCharge string       `json:"person_in_charge"`
	Status         model.Status `json:"status"`
	ShippingType   string       `json:"shipping_type"`
	ShippingDate   *time.Time   `json:"shipping_date"`
	UsageStartAt   *time.Time   `json:"usage_start_at" binding:"required"`
	UsageEndAt     *time.Time   `json:"usage_end_at" binding:"required"`
}

func (s *ProjectService) List(c *gin.Context) {
	var projects []model.Project
	err := s.db.WithContext(c).
		Order("usage_start ASC NULLS LAST").
		Order("id ASC").
		Find(&projects).Error
	if err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (s *ProjectService) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p model.Project
	err := s.db.WithContext(c).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFoundError(c, "not found")
		return
	}
	if err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *ProjectService) Create(c *gin.Context) {
	var req ProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	if _, err := engine.NewInterval(req.UsageStartAt, req.UsageEndAt); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	// Creation always starts in draft; only the confirmation coordinator
	// may ever write confirmed.
	if req.Status != "" && req.Status != model.StatusDraft {
		response.BadRequestError(c, "new projects must start as draft")
		return
	}

	p := model.Project{
		Title:          req.Title,
		ClientName:     req.ClientName,
		Venue:          req.Venue,
		PersonInCharge: req.PersonInCharge,
		Status:         model.StatusDraft,
		ShippingType:   req.ShippingType,
		ShippingDate:   req.ShippingDate,
		UsageStart:     req.UsageStartAt,
		UsageEnd:       req.UsageEndAt,
	}
	if err := s.db.WithContext(c).Create(&p).Error; err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *ProjectService) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	if _, err := engine.NewInterval(req.UsageStartAt, req.UsageEndAt); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	var p model.Project
	err := s.db.WithContext(c).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFoundError(c, "not found")
		return
	}
	if err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}

	if err := applyUpdate(&p, &req); err != nil {
		if errors.Is(err, engine.ErrItemsFrozen) {
			renderEngineError(c, err)
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}
	if err := s.db.WithContext(c).Save(&p).Error; err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}
	c.JSON(http.StatusOK, p)
}

// applyUpdate validates the request against the project's current status
// and copies the accepted fields onto it. Once a project left draft its
// usage interval is committed global state, same as its requirement rows:
// moving it here would change the overlap picture behind the coordinator's
// back, so those edits get the same frozen answer as item edits.
func applyUpdate(p *model.Project, req *ProjectReq) error {
	switch req.Status {
	case "", model.StatusDraft, model.StatusCancelled:
	case model.StatusConfirmed:
		return errors.New("use the confirm endpoint to confirm a project")
	default:
		return errors.New("status must be draft or cancelled")
	}
	if p.Status != model.StatusDraft {
		if !sameInstant(p.UsageStart, req.UsageStartAt) || !sameInstant(p.UsageEnd, req.UsageEndAt) {
			return engine.ErrItemsFrozen
		}
		if req.Status == model.StatusDraft {
			return engine.ErrItemsFrozen
		}
	}

	p.Title = req.Title
	p.ClientName = req.ClientName
	p.Venue = req.Venue
	p.PersonInCharge = req.PersonInCharge
	p.ShippingType = req.ShippingType
	p.ShippingDate = req.ShippingDate
	p.UsageStart = req.UsageStartAt
	p.UsageEnd = req.UsageEndAt
	if req.Status != "" {
		p.Status = req.Status
	}
	return nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Delete removes a project and cascades its requirement rows; a project is
// never left referenced by orphaned items.
func (s *ProjectService) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := s.db.WithContext(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, id).Error
	})
	if err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Confirm runs the conflict engine's commit path.
func (s *ProjectService) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.co.Confirm(c.Request.Context(), id); err != nil {
		renderEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequestError(c, "id is required")
		return 0, false
	}
	return uint(id), true
}
