package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/craveq/backend/internal/middleware"
	"github.com/pageza/craveq/backend/internal/service"
	"github.com/pageza/craveq/backend/internal/types"
)

// CravingRequired is returned when the request carries no usable craving
const CravingRequired = "Craving is required"

// LookupObserver is notified of each decode outcome
type LookupObserver interface {
	ObserveLookup(outcome string)
}

// DecodeHandler turns a craving into healthier alternatives
type DecodeHandler struct {
	upgrader service.Upgrader
	observer LookupObserver
}

// NewDecodeHandler creates a new decode handler; observer may be nil
func NewDecodeHandler(upgrader service.Upgrader, observer LookupObserver) *DecodeHandler {
	return &DecodeHandler{upgrader: upgrader, observer: observer}
}

func (h *DecodeHandler) observe(outcome string) {
	if h.observer != nil {
		h.observer.ObserveLookup(outcome)
	}
}

// Decode handles POST /api/decode
func (h *DecodeHandler) Decode(c *gin.Context) {
	var req types.DecodeRequest
	// Malformed bodies and non-string cravings count as missing
	if err := c.ShouldBindJSON(&req); err != nil || req.Craving == nil || *req.Craving == "" {
		h.observe(middleware.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: CravingRequired})
		return
	}

	alternatives, err := h.upgrader.UpgradeRecipe(c.Request.Context(), *req.Craving)
	if err != nil {
		var lookupErr *service.LookupError
		if errors.As(err, &lookupErr) {
			h.observe(middleware.OutcomeMiss)
			c.JSON(http.StatusNotFound, types.ErrorResponse{Error: lookupErr.Message})
			return
		}

		log.Printf("[Decode] Lookup failed for %q: %v", *req.Craving, err)
		h.observe(middleware.OutcomeError)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: middleware.InternalServerError})
		return
	}

	h.observe(middleware.OutcomeHit)
	c.JSON(http.StatusOK, alternatives)
}
