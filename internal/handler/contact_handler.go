package handler

import (
	"net/http"

	"bikeblog/internal/dto"
	"bikeblog/internal/service"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	notifier service.Notifier
}

func NewContactHandler(notifier service.Notifier) *ContactHandler {
	return &ContactHandler{notifier: notifier}
}

func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Send)
}

// Send accepts a feedback message and dispatches it asynchronously. The
// client gets an immediate ack; delivery is best effort.
func (h *ContactHandler) Send(c *gin.Context) {
	var in dto.ContactRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	h.notifier.Feedback(in.Name, in.Email, in.Message)
	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}
