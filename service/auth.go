package service

import (
	"errors"
	"net/http"
	"strings"

	"gearbook/dao/model"
	"gearbook/logutils"
	"gearbook/response"
	"gearbook/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func RegisterAuth(r gin.IRouter, db *gorm.DB) {
	s := &AuthService{db: db}
	r.POST("/login", s.Login)
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and issues a signed token.
func (s *AuthService) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "email and password required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user model.User
	err := s.db.WithContext(c).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, http.StatusBadRequest, "Invalid credentials", response.InvalidCredentials)
		return
	}
	if err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		response.Error(c, http.StatusBadRequest, "Invalid credentials", response.InvalidCredentials)
		return
	}

	token, err := util.GetTokenMgr().CreateToken(&util.JWTMessage{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
