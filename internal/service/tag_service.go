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

type TagService interface {
	GetAll(ctx context.Context) ([]dto.TagResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.TagResponse, error)
	Create(ctx context.Context, in dto.CreateTagDTO) (*dto.TagResponse, error)
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) GetAll(ctx context.Context) ([]dto.TagResponse, error) {
	tags, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, dto.FromModelToTagResponse(&tags[i]))
	}
	return out, nil
}

func (s *tagService) GetBySlug(ctx context.Context, tagSlug string) (*dto.TagResponse, error) {
	tag, err := s.tagRepo.GetBySlug(ctx, tagSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	resp := dto.FromModelToTagResponse(tag)
	return &resp, nil
}

func (s *tagService) Create(ctx context.Context, in dto.CreateTagDTO) (*dto.TagResponse, error) {
	text := strings.TrimSpace(in.Tag)
	if text == "" {
		return nil, errors.New("tag text required")
	}
	tag := &models.Tag{Tag: text, Slug: slug.Make(text)}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	resp := dto.FromModelToTagResponse(tag)
	return &resp, nil
}
