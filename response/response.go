package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error sends an error response with the given HTTP status. The body always
// carries a machine code and a human message under the same keys, so clients
// never have to sniff shapes.
func Error(c *gin.Context, httpCode int, msg string, code ErrorCode) {
	c.JSON(httpCode, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Used by Gin ShouldBindJSON, ShouldBindQuery etc. when binding fails.
func BadRequestError(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg, InvalidRequest)
}

func NotFoundError(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg, NotFound)
}

// Shortage reports a failed feasibility check with the full list of short
// equipment, so the caller can show everything wrong at once.
func Shortage(c *gin.Context, shortages any) {
	c.JSON(http.StatusConflict, gin.H{
		"code":      StockShortage,
		"message":   "Stock shortage",
		"shortages": shortages,
	})
}
