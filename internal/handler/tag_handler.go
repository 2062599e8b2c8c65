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

type TagHandler struct {
	svc         service.TagService
	postService service.PostService
	authService service.AuthService
}

func NewTagHandler(svc service.TagService, postService service.PostService, authService service.AuthService) *TagHandler {
	return &TagHandler{svc: svc, postService: postService, authService: authService}
}

func (h *TagHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:slug", h.Get)
	rg.GET("/:slug/posts", middleware.AuthOptional(h.authService), h.Posts)

	rg.POST("", middleware.AuthRequired(h.authService), middleware.RequireAdmin(), h.Create)
}

func (h *TagHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tags, err := h.svc.GetAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

func (h *TagHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tag, err := h.svc.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Posts serves the aggregated published collection narrowed to one tag.
// An unknown tag or an empty page is a 404.
func (h *TagHandler) Posts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	q := service.ListQuery{
		TagSlug:           c.Param("slug"),
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

func (h *TagHandler) Create(c *gin.Context) {
	var in dto.CreateTagDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tag, err := h.svc.Create(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}
