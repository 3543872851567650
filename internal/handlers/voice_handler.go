package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dairydash-api/internal/services"
)

type VoiceHandler struct {
	voiceService *services.VoiceService
}

func NewVoiceHandler(voiceService *services.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService}
}

type VoiceCommandRequest struct {
	Text string `json:"text" binding:"required"`
}

// @Summary Execute Voice Command
// @Description Parses a transcribed command and performs it. A command that cannot be understood returns understood=false.
// @Tags Voice
// @Accept json
// @Produce json
// @Param request body VoiceCommandRequest true "Transcript"
// @Success 200 {object} services.VoiceResult
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Security BearerAuth
// @Router /voice/commands [post]
func (h *VoiceHandler) Execute(c *gin.Context) {
	var req VoiceCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.voiceService.Execute(c.Request.Context(), actor(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
