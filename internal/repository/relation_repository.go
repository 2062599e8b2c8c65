package repository

import (
	"context"
	"errors"

	"bikeblog/internal/models"

	"gorm.io/gorm"
)

type RelationRepository interface {
	GetOrCreate(ctx context.Context, userID string, postID int64) (*models.Relation, bool, error)
	GetByUserAndPost(ctx context.Context, userID string, postID int64) (*models.Relation, error)
	Save(ctx context.Context, relation *models.Relation) error
	Delete(ctx context.Context, userID string, postID int64) error
}

type relationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

// GetOrCreate resolves the single relation row for (user, post), creating
// it with defaults when absent. The second return value reports creation.
func (r *relationRepository) GetOrCreate(ctx context.Context, userID string, postID int64) (*models.Relation, bool, error) {
	var relation models.Relation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&relation).Error
	if err == nil {
		return &relation, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	relation = models.Relation{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).Create(&relation).Error; err != nil {
		// a concurrent request may have inserted the row first; the
		// unique (user_id, post_id) constraint arbitrates, so fall back
		// to reading the winner
		if IsUniqueViolation(err) {
			var existing models.Relation
			if err := r.db.WithContext(ctx).
				Where("user_id = ? AND post_id = ?", userID, postID).
				First(&existing).Error; err != nil {
				return nil, false, err
			}
			return &existing, false, nil
		}
		return nil, false, err
	}
	return &relation, true, nil
}

func (r *relationRepository) GetByUserAndPost(ctx context.Context, userID string, postID int64) (*models.Relation, error) {
	var relation models.Relation
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&relation).Error; err != nil {
		return nil, err
	}
	return &relation, nil
}

func (r *relationRepository) Save(ctx context.Context, relation *models.Relation) error {
	return r.db.WithContext(ctx).Save(relation).Error
}

func (r *relationRepository) Delete(ctx context.Context, userID string, postID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Relation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
