package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aet-studio-backend/internal/http/response"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/prompts"
	"github.com/yungbote/aet-studio-backend/internal/platform/ctxutil"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

type GenerationHandler struct {
	log *logger.Logger
	uc  resources.Usecases
}

func NewGenerationHandler(log *logger.Logger, uc resources.Usecases) *GenerationHandler {
	return &GenerationHandler{log: log.With("handler", "GenerationHandler"), uc: uc}
}

// POST /api/ai/generate
// body: { "studentId": 1, "type": "pecs", "topic": "...", "language": "bilingual", "aetContext": {...} }
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req resources.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	env, err := h.uc.Generate(c.Request.Context(), teacherID(c), req)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, env)
}

type regenerateRequest struct {
	Text       string `json:"text"`
	VisualKind string `json:"visualKind"`

	Resource *content.Envelope `json:"resource,omitempty"`
	Position *content.Position `json:"position,omitempty"`
	DraftID  string            `json:"draftId,omitempty"`
}

type regenerateResponse struct {
	ImageURL *string           `json:"imageUrl"`
	Resource *content.Envelope `json:"resource,omitempty"`
}

// POST /api/ai/regenerate-image
// body: { "text": "...", "visualKind": "symbol" | "pecs" }
// or:   { "resource": {...envelope}, "position": {"index": 3, "choice": 1}, "draftId": "..." }
func (h *GenerationHandler) RegenerateImage(c *gin.Context) {
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	if req.Resource != nil {
		if req.Position == nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", content.ErrInvalidPosition)
			return
		}
		draftID := req.DraftID
		if draftID == "" {
			draftID = ctxutil.DraftID(c.Request.Context())
		}
		env, url, err := h.uc.RegenerateAt(c.Request.Context(), teacherID(c), draftID, *req.Resource, *req.Position)
		if err != nil {
			response.RespondAPIError(c, toAPIError(err))
			return
		}
		response.RespondOK(c, regenerateResponse{ImageURL: optional(url), Resource: &env})
		return
	}

	url, ok, err := h.uc.RegenerateImage(c.Request.Context(), req.Text, prompts.ParseVisualKind(req.VisualKind))
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	if !ok {
		url = ""
	}
	response.RespondOK(c, regenerateResponse{ImageURL: optional(url)})
}

// POST /api/ai/edit
// body: { "resource": {...envelope}, "edit": {"field": "text", "position": {"index": 0}, "language": "ar", "value": "..."} }
func (h *GenerationHandler) Edit(c *gin.Context) {
	var req struct {
		Resource content.Envelope `json:"resource"`
		Edit     content.Edit     `json:"edit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	env, err := h.uc.Edit(req.Resource, req.Edit)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, env)
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
