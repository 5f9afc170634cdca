package util

import (
	"sync"
	"time"

	"gearbook/config"
	"gearbook/dao/model"

	jwt "github.com/golang-jwt/jwt/v5"
)

type (
	JWTClaims struct {
		UserID uint       `json:"ui"`
		Email  string     `json:"em"`
		Role   model.Role `json:"rl"`
		jwt.RegisteredClaims
	}
	JWTMessage struct {
		UserID uint       `json:"userID"`
		Email  string     `json:"email"`
		Role   model.Role `json:"role"`
	}
)

type TokenManager struct {
	secretKey string
	tokenTTL  int
}

var (
	once     sync.Once
	tokenMgr *TokenManager
)

func GetTokenMgr() *TokenManager {
	once.Do(func() {
		cfg := config.GetConfig()
		tokenMgr = newTokenManager(cfg.Auth.TokenSecret, cfg.Auth.TokenExpiryHour)
	})
	return tokenMgr
}

func newTokenManager(secretKey string, tokenTTL int) *TokenManager {
	return &TokenManager{
		secretKey,
		tokenTTL,
	}
}

// CreateToken signs an HS256 token for the given user.
func (tm *TokenManager) CreateToken(msg *JWTMessage) (string, error) {
	expiresAt := time.Now().Add(time.Hour * time.Duration(tm.tokenTTL))

	claims := &JWTClaims{
		UserID: msg.UserID,
		Email:  msg.Email,
		Role:   msg.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secretKey))
}

func (tm *TokenManager) CheckToken(requestToken string) (JWTMessage, error) {
	claims := JWTClaims{}
	_, err := jwt.ParseWithClaims(requestToken, &claims, func(_ *jwt.Token) (any, error) {
		return []byte(tm.secretKey), nil
	})
	return JWTMessage{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, err
}
