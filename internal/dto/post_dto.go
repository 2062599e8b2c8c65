package dto

import (
	"fmt"
	"time"

	"bikeblog/internal/models"
)

// CreatePostDTO used for POST /api/v1/posts. The author is never part of
// the payload; it is taken from the caller's identity.
type CreatePostDTO struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Content     string  `json:"content"`
	Photo       *string `json:"photo,omitempty"`
	IsPublished *int    `json:"is_published,omitempty" binding:"omitempty,oneof=0 1"`
	CategoryID  int64   `json:"category" binding:"required"`
	TagIDs      []int64 `json:"tags,omitempty"`
}

// UpdatePostDTO used for PUT /api/v1/posts/:slug (partial updates allowed)
type UpdatePostDTO struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Content     *string `json:"content,omitempty"`
	Photo       *string `json:"photo,omitempty"`
	IsPublished *int    `json:"is_published,omitempty" binding:"omitempty,oneof=0 1"`
	CategoryID  *int64  `json:"category,omitempty"`
	TagIDs      []int64 `json:"tags,omitempty"`
}

func (d UpdatePostDTO) ApplyTo(p *models.Post) {
	if d.Title != nil {
		p.Title = *d.Title
	}
	if d.Content != nil {
		p.Content = *d.Content
	}
	if d.Photo != nil {
		p.Photo = d.Photo
	}
	if d.IsPublished != nil {
		p.IsPublished = *d.IsPublished
	}
	if d.CategoryID != nil {
		p.CategoryID = *d.CategoryID
	}
}

// AggregatedPost is the single projected shape both presentation paths
// (JSON API and HTML pages) render. The category is the display name, never
// the foreign key; tags are slugs.
type AggregatedPost struct {
	Title              string    `json:"title"`
	Slug               string    `json:"slug"`
	Content            string    `json:"content"`
	Created            time.Time `json:"created"`
	Modified           time.Time `json:"modified"`
	Category           string    `json:"category"`
	Tags               []string  `json:"tags"`
	IsPublished        int       `json:"is_published"`
	Photo              *string   `json:"photo,omitempty"`
	LikeCount          int64     `json:"like_count"`
	AverageRating      *string   `json:"average_rating,omitempty"`
	LikedByCurrentUser *bool     `json:"liked_by_current_user,omitempty"`
}

// NewAggregatedPost projects a post and its engagement aggregates.
// avgRating is serialized to exactly two fractional digits ("4.00") or left
// absent when the post has no ratings. liked is nil for anonymous callers.
func NewAggregatedPost(p *models.Post, likeCount int64, avgRating *float64, liked *bool) AggregatedPost {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Slug)
	}

	var avg *string
	if avgRating != nil {
		s := fmt.Sprintf("%.2f", *avgRating)
		avg = &s
	}

	return AggregatedPost{
		Title:              p.Title,
		Slug:               p.Slug,
		Content:            p.Content,
		Created:            p.CreatedAt,
		Modified:           p.UpdatedAt,
		Category:           p.Category.Name,
		Tags:               tags,
		IsPublished:        p.IsPublished,
		Photo:              p.Photo,
		LikeCount:          likeCount,
		AverageRating:      avg,
		LikedByCurrentUser: liked,
	}
}

// PostDetailResponse extends the aggregate with the caller's own rating.
type PostDetailResponse struct {
	AggregatedPost
	MyRating *int `json:"my_rating,omitempty"`
}

// PaginatedPostResponse for returning a page of the aggregated collection
type PaginatedPostResponse struct {
	Data       []AggregatedPost `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

func NewPaginatedPostResponse(data []AggregatedPost, total, page, pageSize int) *PaginatedPostResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedPostResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
