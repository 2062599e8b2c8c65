package dto

import "bikeblog/internal/models"

type CreateTagDTO struct {
	Tag string `json:"tag" binding:"required,max=100"`
}

type TagResponse struct {
	Tag  string `json:"tag"`
	Slug string `json:"slug"`
}

func FromModelToTagResponse(tag *models.Tag) TagResponse {
	return TagResponse{
		Tag:  tag.Tag,
		Slug: tag.Slug,
	}
}
