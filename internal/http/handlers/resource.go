package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aet-studio-backend/internal/http/response"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources"
	"github.com/yungbote/aet-studio-backend/internal/modules/resources/content"
)

type ResourceHandler struct {
	uc resources.Usecases
}

func NewResourceHandler(uc resources.Usecases) *ResourceHandler {
	return &ResourceHandler{uc: uc}
}

// GET /api/students/:id/resources
func (h *ResourceHandler) ListForStudent(c *gin.Context) {
	studentID, err := parseID(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out, err := h.uc.ListResources(c.Request.Context(), teacherID(c), studentID)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"resources": out})
}

// GET /api/resources/:id
func (h *ResourceHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	r, err := h.uc.GetResource(c.Request.Context(), teacherID(c), id)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"resource": r})
}

// POST /api/resources
// body: the envelope returned by /api/ai/generate, possibly edited.
func (h *ResourceHandler) Save(c *gin.Context) {
	var env content.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	r, err := h.uc.Save(c.Request.Context(), teacherID(c), env)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondCreated(c, gin.H{"resource": r})
}

// DELETE /api/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.uc.DeleteResource(c.Request.Context(), teacherID(c), id); err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
