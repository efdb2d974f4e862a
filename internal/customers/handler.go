package customers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches customer routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/customers/register", h.register)
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	customer, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "conflict", "email already registered", nil)
		case errors.Is(err, ErrUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "customer store unavailable, retry later", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register customer", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"customer_id": customer.ID,
		"api_key":     customer.APIKey,
	})
}
