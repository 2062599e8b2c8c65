package dto

import "bikeblog/internal/models"

type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToCategoryResponse(category *models.Category) CategoryResponse {
	return CategoryResponse{
		Name: category.Name,
		Slug: category.Slug,
	}
}
