package response

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

// StatusClientClosedRequest is written when the caller went away mid-request.
const StatusClientClosedRequest = 499

type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes err as JSON. AppErrors carry their own status and message;
// anything else is logged and hidden behind a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	if errors.Is(err, context.Canceled) && c.Request.Context().Err() != nil {
		c.AbortWithStatus(StatusClientClosedRequest)
		return
	}

	log.Printf("%s %s: internal error: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
