package service

import (
	"net/http"
	"strconv"

	"gearbook/engine"
	"gearbook/response"

	"github.com/gin-gonic/gin"
)

type ShortageService struct {
	co *engine.Coordinator
}

func RegisterShortages(r gin.IRouter, co *engine.Coordinator) {
	s := &ShortageService{co: co}
	r.GET("/shortages", s.List)
}

// List reports required / used / available / shortage per equipment the
// project demands, ordered by equipment id. This is the advisory read-only
// path; it takes no locks and a concurrent confirm may invalidate it.
func (s *ShortageService) List(c *gin.Context) {
	projectID, ok := queryProjectID(c)
	if !ok {
		return
	}
	rows, err := s.co.Availability(c.Request.Context(), projectID)
	if err != nil {
		renderEngineError(c, err)
		return
	}
	if rows == nil {
		rows = []engine.Availability{}
	}
	c.JSON(http.StatusOK, rows)
}

func queryProjectID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("project_id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequestError(c, "project_id is required")
		return 0, false
	}
	return uint(id), true
}
