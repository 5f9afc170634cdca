package service

import (
	"errors"
	"net/http"

	"gearbook/engine"
	"gearbook/logutils"
	"gearbook/response"

	"github.com/gin-gonic/gin"
)

// renderEngineError maps engine failures onto the HTTP error taxonomy:
// unknown ids are 404, interval problems 400, shortage and terminal-state
// conflicts 409, lock contention 503 (retryable), anything else 500.
func renderEngineError(c *gin.Context, err error) {
	var shortage *engine.ShortageError
	switch {
	case errors.As(err, &shortage):
		response.Shortage(c, shortage.Shortages)
	case errors.Is(err, engine.ErrNotFound):
		response.NotFoundError(c, "not found")
	case errors.Is(err, engine.ErrMissingInterval):
		response.BadRequestError(c, engine.ErrMissingInterval.Error())
	case errors.Is(err, engine.ErrInvalidInterval):
		response.BadRequestError(c, engine.ErrInvalidInterval.Error())
	case errors.Is(err, engine.ErrAlreadyTerminal):
		response.Error(c, http.StatusConflict, engine.ErrAlreadyTerminal.Error(), response.AlreadyFinal)
	case errors.Is(err, engine.ErrItemsFrozen):
		response.Error(c, http.StatusConflict, engine.ErrItemsFrozen.Error(), response.ItemsFrozen)
	case errors.Is(err, engine.ErrBusy):
		response.Error(c, http.StatusServiceUnavailable, engine.ErrBusy.Error(), response.StoreBusy)
	default:
		logutils.Log.Error(err)
		response.Error(c, http.StatusInternalServerError, "internal error", response.StorageFailure)
	}
}
