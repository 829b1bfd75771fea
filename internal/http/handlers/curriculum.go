package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/aet-studio-backend/internal/curriculum"
	"github.com/yungbote/aet-studio-backend/internal/http/response"
)

type CurriculumHandler struct {
	framework *curriculum.Framework
}

func NewCurriculumHandler(fw *curriculum.Framework) *CurriculumHandler {
	return &CurriculumHandler{framework: fw}
}

// GET /api/curriculum
func (h *CurriculumHandler) Get(c *gin.Context) {
	response.RespondOK(c, gin.H{"areas": h.framework.Areas})
}
