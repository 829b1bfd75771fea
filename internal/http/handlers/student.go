package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aet-studio-backend/internal/http/response"
	"github.com/yungbote/aet-studio-backend/internal/services"
)

type StudentHandler struct {
	students services.StudentService
}

func NewStudentHandler(students services.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// GET /api/students
func (h *StudentHandler) List(c *gin.Context) {
	out, err := h.students.List(c.Request.Context(), teacherID(c))
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"students": out})
}

// POST /api/students
func (h *StudentHandler) Create(c *gin.Context) {
	var in services.StudentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	st, err := h.students.Create(c.Request.Context(), teacherID(c), in)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondCreated(c, gin.H{"student": st})
}

// GET /api/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	st, err := h.students.Get(c.Request.Context(), teacherID(c), id)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"student": st})
}

// PUT /api/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var in services.StudentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	st, err := h.students.Update(c.Request.Context(), teacherID(c), id, in)
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"student": st})
}

// DELETE /api/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), teacherID(c), id); err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
