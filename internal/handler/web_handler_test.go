package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bikeblog/internal/dto"
	"bikeblog/internal/handler"
	"bikeblog/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func boolPtr(b bool) *bool { return &b }

func setupWebRouter(svc *MockPostService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetFuncMap(handler.TemplateFuncMap())
	r.LoadHTMLGlob("../../web/templates/*.tmpl")

	h := handler.NewWebHandler(svc, nil, nil, nil)
	if userID != "" {
		r.GET("/", mockAuthMiddleware(userID, models.RoleUser), h.Home)
		r.GET("/post/:slug", mockAuthMiddleware(userID, models.RoleUser), h.Post)
	} else {
		r.GET("/", h.Home)
		r.GET("/post/:slug", h.Post)
	}
	return r
}

func webDetailFixture(liked *bool) *dto.PostDetailResponse {
	avg := "4.00"
	return &dto.PostDetailResponse{
		AggregatedPost: dto.AggregatedPost{
			Title:              "Gravel Season",
			Slug:               "gravel-season",
			Content:            "lorem",
			Created:            time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
			Modified:           time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
			Category:           "Touring",
			Tags:               []string{"gravel"},
			IsPublished:        models.StatusPublished,
			LikeCount:          3,
			AverageRating:      &avg,
			LikedByCurrentUser: liked,
		},
	}
}

func TestWebPost_LikedBadgeShown(t *testing.T) {
	svc := new(MockPostService)
	r := setupWebRouter(svc, "user-1")

	svc.On("GetBySlug", mock.Anything, mock.Anything, "gravel-season").
		Return(webDetailFixture(boolPtr(true)), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/post/gravel-season", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "liked by you")
	assert.Contains(t, w.Body.String(), "rated 4.00")
}

func TestWebPost_NoBadgeWhenViewerHasNotLiked(t *testing.T) {
	svc := new(MockPostService)
	r := setupWebRouter(svc, "user-1")

	svc.On("GetBySlug", mock.Anything, mock.Anything, "gravel-season").
		Return(webDetailFixture(boolPtr(false)), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/post/gravel-season", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "liked by you")
}

func TestWebHome_AnonymousHasNoLikedBadge(t *testing.T) {
	svc := new(MockPostService)
	r := setupWebRouter(svc, "")

	detail := webDetailFixture(nil)
	svc.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(&dto.PaginatedPostResponse{
			Data:       []dto.AggregatedPost{detail.AggregatedPost},
			Page:       1,
			PageSize:   10,
			Total:      1,
			TotalPages: 1,
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Gravel Season")
	assert.Contains(t, w.Body.String(), "3 likes")
	assert.NotContains(t, w.Body.String(), "liked by you")
}

func TestWebHome_AuthenticatedLikedBadgePerPost(t *testing.T) {
	svc := new(MockPostService)
	r := setupWebRouter(svc, "user-1")

	liked := webDetailFixture(boolPtr(true)).AggregatedPost
	notLiked := webDetailFixture(boolPtr(false)).AggregatedPost
	notLiked.Title = "Winter Commute"
	notLiked.Slug = "winter-commute"
	svc.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(&dto.PaginatedPostResponse{
			Data:       []dto.AggregatedPost{liked, notLiked},
			Page:       1,
			PageSize:   10,
			Total:      2,
			TotalPages: 1,
		}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), "liked by you"))
}
