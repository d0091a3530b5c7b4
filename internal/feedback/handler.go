package feedback

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"treatment-backend/internal/shared/server/middleware"
	"treatment-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches feedback routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations/:id/feedback", h.create)
	rg.GET("/recommendations/:id/feedback", h.list)
}

type createRequest struct {
	WasSuccessful  *bool    `json:"wasSuccessful"`
	ActualHardness *float64 `json:"actualHardness"`
	Comments       string   `json:"comments"`
	UserName       string   `json:"userName"`
}

func (h *Handler) create(c *gin.Context) {
	recommendationID := c.Param("id")
	c.Set(middleware.RecommendationIDKey, recommendationID)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.WasSuccessful == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "wasSuccessful is required", nil)
		return
	}

	fb, err := h.Svc.Record(c.Request.Context(), recommendationID, Input{
		WasSuccessful:  *req.WasSuccessful,
		ActualHardness: req.ActualHardness,
		Comments:       req.Comments,
		UserName:       req.UserName,
	})
	if err != nil {
		writeError(c, err, "failed to record feedback")
		return
	}
	respond.Created(c, fb)
}

func (h *Handler) list(c *gin.Context) {
	recommendationID := c.Param("id")
	c.Set(middleware.RecommendationIDKey, recommendationID)

	items, err := h.Svc.List(c.Request.Context(), recommendationID)
	if err != nil {
		writeError(c, err, "failed to list feedback")
		return
	}
	if items == nil {
		items = []Feedback{}
	}
	respond.Items(c, items)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrRecommendationNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "recommendation not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
