package service

import (
	"net/http"

	"gearbook/dao/model"
	"gearbook/logutils"
	"gearbook/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EquipmentService struct {
	db *gorm.DB
}

func RegisterEquipment(r gin.IRouter, db *gorm.DB) {
	s := &EquipmentService{db: db}
	r.GET("/equipment", s.List)
}

// List returns the catalog ordered by id. Catalog management happens
// elsewhere; this service only ever reads it.
func (s *EquipmentService) List(c *gin.Context) {
	var equipment []model.Equipment
	err := s.db.WithContext(c).Order("id ASC").Find(&equipment).Error
	if err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}
	c.JSON(http.StatusOK, equipment)
}
