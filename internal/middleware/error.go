package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/craveq/backend/internal/types"
)

// InternalServerError is the body returned for unexpected failures
const InternalServerError = "Internal Server Error"

// ErrorHandler recovers from panics and returns a JSON error response
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Printf("Error: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: InternalServerError})
	})
}
