package service

import (
	"context"
	"errors"
	"strings"

	"bikeblog/internal/dto"
	"bikeblog/internal/models"
	"bikeblog/internal/repository"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CategoryService interface {
	GetAll(ctx context.Context) ([]dto.CategoryResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.CategoryResponse, error)
	Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, postRepo repository.PostRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, postRepo: postRepo}
}

func (s *categoryService) GetAll(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, dto.FromModelToCategoryResponse(&categories[i]))
	}
	return out, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, categorySlug string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	resp := dto.FromModelToCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("category name required")
	}
	category := &models.Category{Name: name, Slug: slug.Make(name)}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	resp := dto.FromModelToCategoryResponse(category)
	return &resp, nil
}

// Delete rejects removal while posts still reference the category
// (protect, not cascade).
func (s *categoryService) Delete(ctx context.Context, categorySlug string) error {
	category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	count, err := s.postRepo.CountByCategory(ctx, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	// the count check races with concurrent post writes; the FK constraint
	// is the final arbiter
	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		return err
	}
	return nil
}
