package workinstructions

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"treatment-backend/internal/shared/server/middleware"
	"treatment-backend/internal/shared/server/respond"
)

const maxAttachmentSize = 20 << 20 // 20MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches work instruction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/work-instructions", h.list)
	rg.POST("/work-instructions", h.create)
	rg.GET("/work-instructions/:id", h.get)
	rg.PUT("/work-instructions/:id", h.update)
	rg.POST("/work-instructions/:id/activate", h.setActive(true))
	rg.POST("/work-instructions/:id/deactivate", h.setActive(false))
	rg.POST("/work-instructions/:id/attachment", h.uploadAttachment)
	rg.GET("/work-instructions/:id/attachment", h.downloadAttachment)
}

type rangeBody struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func (b *rangeBody) toRange() *Range {
	if b == nil {
		return nil
	}
	return NewRange(b.Min, b.Max)
}

type workInstructionBody struct {
	ITCode           string     `json:"itCode"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TreatmentType    string     `json:"treatmentType"`
	CoolingMethod    string     `json:"coolingMethod"`
	SpecialNotes     string     `json:"specialNotes"`
	Version          string     `json:"version"`
	ApplicableSteels []string   `json:"applicableSteels"`
	Temperature      *rangeBody `json:"temperature"`
	Duration         *rangeBody `json:"duration"`
	HardnessInput    *rangeBody `json:"hardnessInput"`
	HardnessOutput   *rangeBody `json:"hardnessOutput"`
	Active           *bool      `json:"active"`
}

func (b workInstructionBody) toInput() Input {
	return Input{
		ITCode:           b.ITCode,
		Title:            b.Title,
		Description:      b.Description,
		TreatmentType:    b.TreatmentType,
		CoolingMethod:    b.CoolingMethod,
		SpecialNotes:     b.SpecialNotes,
		Version:          b.Version,
		ApplicableSteels: b.ApplicableSteels,
		Temperature:      b.Temperature.toRange(),
		Duration:         b.Duration.toRange(),
		HardnessInput:    b.HardnessInput.toRange(),
		HardnessOutput:   b.HardnessOutput.toRange(),
		Active:           b.Active,
	}
}

func (h *Handler) list(c *gin.Context) {
	filter := ListFilter{
		TreatmentType: strings.TrimSpace(c.Query("treatmentType")),
		Search:        strings.TrimSpace(c.Query("q")),
	}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "active must be true or false", nil)
			return
		}
		filter.Active = &active
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
		writeError(c, err, "failed to list work instructions")
		return
	}
	if items == nil {
		items = []WorkInstruction{}
	}
	respond.Items(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var body workInstructionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	wi, err := h.Svc.Create(c.Request.Context(), body.toInput())
	if err != nil {
		writeError(c, err, "failed to create work instruction")
		return
	}
	c.Set(middleware.ITCodeKey, wi.ITCode)
	respond.Created(c, wi)
}

func (h *Handler) get(c *gin.Context) {
	wi, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch work instruction")
		return
	}
	c.Set(middleware.ITCodeKey, wi.ITCode)
	respond.OK(c, wi)
}

func (h *Handler) update(c *gin.Context) {
	var body workInstructionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	wi, err := h.Svc.Update(c.Request.Context(), c.Param("id"), body.toInput())
	if err != nil {
		writeError(c, err, "failed to update work instruction")
		return
	}
	c.Set(middleware.ITCodeKey, wi.ITCode)
	respond.OK(c, wi)
}

func (h *Handler) setActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		wi, err := h.Svc.SetActive(c.Request.Context(), c.Param("id"), active)
		if err != nil {
			writeError(c, err, "failed to update work instruction")
			return
		}
		c.Set(middleware.ITCodeKey, wi.ITCode)
		respond.OK(c, wi)
	}
}

func (h *Handler) uploadAttachment(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAttachmentSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	wi, err := h.Svc.UploadAttachment(c.Request.Context(), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		writeError(c, err, "failed to upload attachment")
		return
	}
	c.Set(middleware.ITCodeKey, wi.ITCode)
	respond.OK(c, wi)
}

func (h *Handler) downloadAttachment(c *gin.Context) {
	rc, name, err := h.Svc.OpenAttachment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to open attachment")
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		_ = c.Error(err)
	}
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "work instruction not found", nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
