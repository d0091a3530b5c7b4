package recommendations

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"treatment-backend/internal/recommendations/engine"
	"treatment-backend/internal/shared/server/middleware"
	"treatment-backend/internal/shared/server/respond"
	"treatment-backend/internal/workinstructions"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc     *Service
	Catalog WorkInstructionGetter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, catalog WorkInstructionGetter) *Handler {
	return &Handler{Svc: svc, Catalog: catalog}
}

// RegisterSearchRoutes attaches the query route. It is registered apart so it can carry its own rate limit.
func (h *Handler) RegisterSearchRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations/search", h.search)
}

// RegisterRoutes attaches the save and history routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.save)
	rg.GET("/recommendations", h.list)
	rg.GET("/recommendations/:id", h.get)
}

type treatmentRequest struct {
	SteelCode          string         `json:"steelCode"`
	InputHardness      *float64       `json:"inputHardness"`
	DesiredHardness    *float64       `json:"desiredHardness"`
	PieceDescription   string         `json:"pieceDescription"`
	ClientRequirements map[string]any `json:"clientRequirements"`
}

func (r treatmentRequest) toEngine() engine.Request {
	return engine.Request{
		SteelCode:          r.SteelCode,
		InputHardness:      r.InputHardness,
		DesiredHardness:    r.DesiredHardness,
		PieceDescription:   r.PieceDescription,
		ClientRequirements: r.ClientRequirements,
	}
}

type saveRequest struct {
	Request           treatmentRequest `json:"request"`
	WorkInstructionID string           `json:"workInstructionId"`
	UserName          string           `json:"userName"`
	ClientName        string           `json:"clientName"`
}

func (h *Handler) search(c *gin.Context) {
	var req treatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	results, err := h.Svc.Recommend(c.Request.Context(), req.toEngine())
	if err != nil {
		writeError(c, err)
		return
	}
	if len(results) > 0 {
		c.Set(middleware.ITCodeKey, results[0].WorkInstruction.ITCode)
	}
	respond.OK(c, gin.H{"results": results})
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.UserName) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userName is required", nil)
		return
	}
	wiID := strings.TrimSpace(req.WorkInstructionID)
	if wiID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "workInstructionId is required", nil)
		return
	}

	engineReq, err := engine.Validate(req.Request.toEngine())
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	wi, err := h.Catalog.GetByID(c.Request.Context(), wiID)
	if err != nil {
		if errors.Is(err, workinstructions.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "work instruction not found", nil)
			return
		}
		respond.Error(c, http.StatusServiceUnavailable, "repository_unavailable", "failed to load work instruction", nil)
		return
	}
	if !wi.Active {
		respond.Error(c, http.StatusBadRequest, "validation_error", "work instruction is not active", nil)
		return
	}
	c.Set(middleware.ITCodeKey, wi.ITCode)

	chosen := engine.Explain(engineReq, wi, engine.Score(engineReq, wi))
	id, err := h.Svc.Save(c.Request.Context(), engineReq, chosen, req.UserName, req.ClientName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.RecommendationIDKey, id)
	respond.Created(c, gin.H{"id": id, "confidenceScore": chosen.ConfidenceScore})
}

func (h *Handler) get(c *gin.Context) {
	rec, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.RecommendationIDKey, rec.ID)
	respond.OK(c, rec)
}

func (h *Handler) list(c *gin.Context) {
	filter := ListFilter{
		SteelCode:  c.Query("steelCode"),
		ClientName: c.Query("clientName"),
		UserName:   c.Query("userName"),
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []Recommendation{}
	}
	respond.Items(c, items)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "recommendation not found", nil)
	case errors.Is(err, ErrRepository):
		respond.Error(c, http.StatusServiceUnavailable, "repository_unavailable", "catalog is unavailable", nil)
	case errors.Is(err, ErrPersistence):
		respond.Error(c, http.StatusInternalServerError, "persistence_error", "failed to save recommendation", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}
