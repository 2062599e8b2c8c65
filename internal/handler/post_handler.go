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

type PostHandler struct {
	svc         service.PostService
	authService service.AuthService
}

func NewPostHandler(svc service.PostService, authService service.AuthService) *PostHandler {
	return &PostHandler{svc: svc, authService: authService}
}

func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Reads resolve the caller when a token is present but stay open
	rg.GET("", middleware.AuthOptional(h.authService), h.List)
	rg.GET("/:slug", middleware.AuthOptional(h.authService), h.Get)

	// Writes require authentication
	rg.POST("", middleware.AuthRequired(h.authService), h.Create)
	rg.PUT("/:slug", middleware.AuthRequired(h.authService), h.Update)
	rg.DELETE("/:slug", middleware.AuthRequired(h.authService), h.Delete)
}

func (h *PostHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	q := service.ListQuery{
		Title:    c.Query("title"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Page:     1,
	}
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			q.Page = parsed
		}
	}

	resp, err := h.svc.List(ctx, middleware.CurrentIdentity(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.svc.GetBySlug(ctx, middleware.CurrentIdentity(c), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) Create(c *gin.Context) {
	var in dto.CreatePostDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.svc.Create(ctx, *middleware.CurrentIdentity(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PostHandler) Update(c *gin.Context) {
	var in dto.UpdatePostDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.svc.Update(ctx, *middleware.CurrentIdentity(c), c.Param("slug"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, *middleware.CurrentIdentity(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
