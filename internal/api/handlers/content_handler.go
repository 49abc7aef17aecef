package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/preptalk/internal/models"
	"github.com/yoockh/preptalk/internal/services"
	"github.com/yoockh/preptalk/internal/utils"
)

type ContentHandler struct {
	Content services.ContentService
}

func NewContentHandler(content services.ContentService) *ContentHandler {
	return &ContentHandler{Content: content}
}

type generateRequest struct {
	Profile models.Profile           `json:"profile"`
	TopicID string                   `json:"topic_id"`
	Options models.GenerationOptions `json:"options"`
}

func (h *ContentHandler) Generate(c *gin.Context) {
	const op = "ContentHandler.Generate"

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "malformed request body", err))
		return
	}
	if req.TopicID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "topic_id is required", nil))
		return
	}

	bundle, err := h.Content.Generate(c.Request.Context(), req.Profile, req.TopicID, req.Options)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

func (h *ContentHandler) Topics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": models.Topics()})
}
