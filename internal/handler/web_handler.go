package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"bikeblog/internal/middleware"
	"bikeblog/internal/service"

	"github.com/gin-gonic/gin"
)

// TemplateFuncMap holds the helpers the page templates rely on. isTrue
// exists because template `if` on a *bool tests non-nil-ness, not the
// pointed-to value.
func TemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"add":    func(a, b int) int { return a + b },
		"sub":    func(a, b int) int { return a - b },
		"isTrue": func(b *bool) bool { return b != nil && *b },
	}
}

// WebHandler renders the HTML pages. It goes through the same services as
// the JSON API, so both surfaces serve the identical aggregated projection.
type WebHandler struct {
	postService     service.PostService
	categoryService service.CategoryService
	tagService      service.TagService
	authService     service.AuthService
}

func NewWebHandler(
	postService service.PostService,
	categoryService service.CategoryService,
	tagService service.TagService,
	authService service.AuthService,
) *WebHandler {
	return &WebHandler{
		postService:     postService,
		categoryService: categoryService,
		tagService:      tagService,
		authService:     authService,
	}
}

func (h *WebHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", middleware.AuthOptional(h.authService), h.Home)
	r.GET("/category/:slug", middleware.AuthOptional(h.authService), h.Category)
	r.GET("/tag/:slug", middleware.AuthOptional(h.authService), h.Tag)
	r.GET("/post/:slug", middleware.AuthOptional(h.authService), h.Post)
}

// Home renders the paginated published collection. Out-of-range pages
// render empty rather than 404.
func (h *WebHandler) Home(c *gin.Context) {
	h.renderList(c, service.ListQuery{}, "Home")
}

func (h *WebHandler) Category(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.categoryService.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		h.renderErr(c, err)
		return
	}
	h.renderList(c, service.ListQuery{CategorySlug: category.Slug, NotFoundWhenEmpty: true}, category.Name)
}

func (h *WebHandler) Tag(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tag, err := h.tagService.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		h.renderErr(c, err)
		return
	}
	h.renderList(c, service.ListQuery{TagSlug: tag.Slug, NotFoundWhenEmpty: true}, tag.Tag)
}

func (h *WebHandler) renderList(c *gin.Context, q service.ListQuery, title string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	q.Ordering = c.Query("ordering")
	q.Page = 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			q.Page = parsed
		}
	}

	resp, err := h.postService.List(ctx, middleware.CurrentIdentity(c), q)
	if err != nil {
		h.renderErr(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Title":      title,
		"Posts":      resp.Data,
		"Page":       resp.Page,
		"TotalPages": resp.TotalPages,
	})
}

func (h *WebHandler) Post(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.postService.GetBySlug(ctx, middleware.CurrentIdentity(c), c.Param("slug"))
	if err != nil {
		h.renderErr(c, err)
		return
	}

	c.HTML(http.StatusOK, "post.tmpl", gin.H{
		"Title": resp.Title,
		"Post":  resp,
	})
}

func (h *WebHandler) renderErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrEmptyPage):
		status = http.StatusNotFound
	}
	c.HTML(status, "error.tmpl", gin.H{"Status": status})
}
