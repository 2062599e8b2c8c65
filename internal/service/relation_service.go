package service

import (
	"context"
	"errors"
	"log/slog"

	"bikeblog/internal/dto"
	"bikeblog/internal/repository"

	"gorm.io/gorm"
)

type RelationService interface {
	Upsert(ctx context.Context, userID string, postID int64, in dto.UpdateRelationDTO) (*dto.RelationResponse, error)
	ToggleLike(ctx context.Context, userID string, postID int64) (*dto.RelationResponse, error)
	Clear(ctx context.Context, userID string, postID int64) error
}

type relationService struct {
	relationRepo repository.RelationRepository
	postRepo     repository.PostRepository
	cache        Cache
	logger       *slog.Logger
}

func NewRelationService(
	relationRepo repository.RelationRepository,
	postRepo repository.PostRepository,
	cache Cache,
	logger *slog.Logger,
) RelationService {
	return &relationService{
		relationRepo: relationRepo,
		postRepo:     postRepo,
		cache:        cache,
		logger:       logger,
	}
}

// Upsert resolves-or-creates the relation for (user, post) and applies the
// partial update. Validation happens before any write; the home cache is
// evicted after every successful save.
func (s *relationService) Upsert(ctx context.Context, userID string, postID int64, in dto.UpdateRelationDTO) (*dto.RelationResponse, error) {
	if in.Rate != nil && (*in.Rate < 1 || *in.Rate > 5) {
		return nil, ErrInvalidRating
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	relation, _, err := s.relationRepo.GetOrCreate(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if in.Like != nil {
		relation.Liked = *in.Like
	}
	if in.Rate != nil {
		rate := *in.Rate
		relation.Rating = &rate
	}

	if err := s.relationRepo.Save(ctx, relation); err != nil {
		return nil, err
	}

	s.invalidateHomeCache(ctx)
	return dto.FromModelToRelationResponse(relation), nil
}

// ToggleLike flips the like flag: a fresh relation starts liked, an
// existing one inverts. Last write wins on concurrent toggles by the same
// user.
func (s *relationService) ToggleLike(ctx context.Context, userID string, postID int64) (*dto.RelationResponse, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	relation, created, err := s.relationRepo.GetOrCreate(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if created {
		relation.Liked = true
	} else {
		relation.Liked = !relation.Liked
	}

	if err := s.relationRepo.Save(ctx, relation); err != nil {
		return nil, err
	}

	s.invalidateHomeCache(ctx)
	return dto.FromModelToRelationResponse(relation), nil
}

// Clear removes the caller's relation with the post entirely, dropping
// both the like and the rating.
func (s *relationService) Clear(ctx context.Context, userID string, postID int64) error {
	if err := s.relationRepo.Delete(ctx, userID, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRelationNotFound
		}
		return err
	}

	s.invalidateHomeCache(ctx)
	return nil
}

func (s *relationService) invalidateHomeCache(ctx context.Context) {
	if err := s.cache.Del(ctx, HomeCacheKey); err != nil {
		s.logger.Warn("home cache eviction failed", "error", err)
	}
}
