package service

import (
	"errors"
	"net/http"

	"gearbook/dao/model"
	"gearbook/engine"
	"gearbook/logutils"
	"gearbook/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemService struct {
	db *gorm.DB
}

func RegisterItems(r gin.IRouter, db *gorm.DB) {
	s := &ItemService{db: db}
	r.GET("/project-items", s.List)
	r.POST("/project-items", s.Create)
	r.PUT("/project-items/:id", s.Update)
	r.DELETE("/project-items/:id", s.Delete)
}

type itemRow struct {
	ID                     uint   `json:"id"`
	ProjectID              uint   `json:"project_id"`
	EquipmentID            uint   `json:"equipment_id"`
	Quantity               int    `json:"quantity"`
	EquipmentName          string `json:"equipment_name"`
	EquipmentTotalQuantity int    `json:"equipment_total_quantity"`
}

func (s *ItemService) List(c *gin.Context) {
	projectID, ok := queryProjectID(c)
	if !ok {
		return
	}
	var rows []itemRow
	err := s.db.WithContext(c).
		Model(&model.ProjectItem{}).
		Select("project_items.id, project_items.project_id, project_items.equipment_id, project_items.quantity, equipment.name AS equipment_name, equipment.total_quantity AS equipment_total_quantity").
		Joins("JOIN equipment ON equipment.id = project_items.equipment_id").
		Where("project_items.project_id = ?", projectID).
		Order("project_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type CreateItemReq struct {
	ProjectID   uint `json:"project_id" binding:"required"`
	EquipmentID uint `json:"equipment_id" binding:"required"`
	Quantity    int  `json:"quantity" binding:"required,gt=0"`
}

// Create adds a demand line. A repeated (project, equipment) pair replaces
// the quantity instead of creating a duplicate row.
func (s *ItemService) Create(c *gin.Context) {
	var req CreateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "quantity must be integer > 0")
		return
	}

	var item model.ProjectItem
	err := s.db.WithContext(c).Transaction(func(tx *gorm.DB) error {
		if err := draftOnly(tx, req.ProjectID); err != nil {
			return err
		}
		var eq model.Equipment
		if err := tx.First(&eq, req.EquipmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ErrNotFound
			}
			return err
		}
		item = model.ProjectItem{
			ProjectID:   req.ProjectID,
			EquipmentID: req.EquipmentID,
			Quantity:    req.Quantity,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "equipment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).Create(&item).Error
	})
	if err != nil {
		renderEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type UpdateItemReq struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

func (s *ItemService) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "quantity must be integer > 0")
		return
	}

	var item model.ProjectItem
	err := s.db.WithContext(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ErrNotFound
			}
			return err
		}
		if err := draftOnly(tx, item.ProjectID); err != nil {
			return err
		}
		item.Quantity = req.Quantity
		return tx.Save(&item).Error
	})
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			response.NotFoundError(c, "Project item not found")
			return
		}
		renderEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *ItemService) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := s.db.WithContext(c).Transaction(func(tx *gorm.DB) error {
		var item model.ProjectItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ErrNotFound
			}
			return err
		}
		if err := draftOnly(tx, item.ProjectID); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			response.NotFoundError(c, "Project item not found")
			return
		}
		renderEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// draftOnly rejects requirement edits once a project left draft. Confirmed
// usage is part of the committed global state; editing it without going
// back through the coordinator would silently break the stock invariant.
func draftOnly(tx *gorm.DB, projectID uint) error {
	var p model.Project
	if err := tx.First(&p, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.ErrNotFound
		}
		return err
	}
	if p.Status != model.StatusDraft {
		return engine.ErrItemsFrozen
	}
	return nil
}
