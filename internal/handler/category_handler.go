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

type CategoryHandler struct {
	svc         service.CategoryService
	postService service.PostService
	authService service.AuthService
}

func NewCategoryHandler(svc service.CategoryService, postService service.PostService, authService service.AuthService) *CategoryHandler {
	return &CategoryHandler{svc: svc, postService: postService, authService: authService}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:slug", h.Get)
	rg.GET("/:slug/posts", middleware.AuthOptional(h.authService), h.Posts)

	rg.POST("", middleware.AuthRequired(h.authService), middleware.RequireAdmin(), h.Create)
	rg.DELETE("/:slug", middleware.AuthRequired(h.authService), middleware.RequireAdmin(), h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.svc.GetAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.svc.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// Posts serves the aggregated published collection narrowed to one
// category. An unknown category or an empty page is a 404.
func (h *CategoryHandler) Posts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	q := service.ListQuery{
		CategorySlug:      c.Param("slug"),
		Ordering:          c.Query("ordering"),
		Page:              1,
		NotFoundWhenEmpty: true,
	}
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			q.Page = parsed
		}
	}

	resp, err := h.postService.List(ctx, middleware.CurrentIdentity(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.svc.Create(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
