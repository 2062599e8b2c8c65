package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"bikeblog/internal/dto"
	"bikeblog/internal/middleware"
	"bikeblog/internal/service"

	"github.com/gin-gonic/gin"
)

type RelationHandler struct {
	svc         service.RelationService
	authService service.AuthService
}

func NewRelationHandler(svc service.RelationService, authService service.AuthService) *RelationHandler {
	return &RelationHandler{svc: svc, authService: authService}
}

func (h *RelationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.AuthRequired(h.authService))
	rg.PATCH("/:post_id", h.Upsert)
	rg.POST("/:post_id/like", h.ToggleLike)
	rg.DELETE("/:post_id", h.Clear)
}

// Upsert applies a partial like/rate update for the caller on the post.
func (h *RelationHandler) Upsert(c *gin.Context) {
	postID, ok := h.postID(c)
	if !ok {
		return
	}

	var in dto.UpdateRelationDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.svc.Upsert(ctx, middleware.CurrentIdentity(c).UserID, postID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleLike flips the caller's like on the post.
func (h *RelationHandler) ToggleLike(c *gin.Context) {
	postID, ok := h.postID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.svc.ToggleLike(ctx, middleware.CurrentIdentity(c).UserID, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Clear deletes the caller's relation with the post.
func (h *RelationHandler) Clear(c *gin.Context) {
	postID, ok := h.postID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Clear(ctx, middleware.CurrentIdentity(c).UserID, postID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RelationHandler) postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return 0, false
	}
	return id, true
}
