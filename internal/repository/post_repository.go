package repository

import (
	"context"
	"fmt"
	"strings"

	"bikeblog/internal/models"

	"gorm.io/gorm"
)

// PostAggregate is one row of the grouped engagement query.
type PostAggregate struct {
	PostID        int64
	LikeCount     int64
	AverageRating *float64
}

// ListFilter narrows and orders the post collection.
type ListFilter struct {
	Title         string // exact match
	Search        string // token match across title, content, category name
	CategorySlug  string
	TagSlug       string
	OrderBy       string // "created" (default) or "modified"
	Ascending     bool
	PublishedOnly bool
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagIDs []int64) error
	Update(ctx context.Context, post *models.Post, tagIDs []int64) error
	Delete(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error)
	List(ctx context.Context, f ListFilter) ([]models.Post, error)
	TitleExists(ctx context.Context, title, slug string, excludeID int64) (bool, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	AggregateEngagement(ctx context.Context, postIDs []int64) (map[int64]PostAggregate, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []int64) (map[int64]bool, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post, its tag links and an activity log row in one
// transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if err := replaceTags(tx, post, tagIDs); err != nil {
			return err
		}
		log := models.ActivityLog{Action: "post_created", PostID: post.ID}
		return tx.Create(&log).Error
	})
}

// Update saves the post; a non-nil tagIDs replaces the tag set.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Category", "Author").Save(post).Error; err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		if tagIDs != nil {
			if err := tx.Model(post).Association("Tags").Clear(); err != nil {
				return fmt.Errorf("clear tags: %w", err)
			}
			if err := replaceTags(tx, post, tagIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("Tags").Delete(post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		log := models.ActivityLog{Action: "post_deleted", PostID: post.ID}
		return tx.Create(&log).Error
	})
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	db := r.db.WithContext(ctx).Preload("Category").Preload("Tags")
	if publishedOnly {
		db = db.Where("is_published = ?", models.StatusPublished)
	}
	var post models.Post
	if err := db.Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns the full ordered candidate set for a collection read.
// Pagination is applied by the caller over the aggregated projection so the
// cached and uncached paths slice the exact same list.
func (r *postRepository) List(ctx context.Context, f ListFilter) ([]models.Post, error) {
	db := r.db.WithContext(ctx).Model(&models.Post{})

	if f.PublishedOnly {
		db = db.Where("posts.is_published = ?", models.StatusPublished)
	}
	if f.Title != "" {
		db = db.Where("posts.title = ?", f.Title)
	}

	if f.Search != "" || f.CategorySlug != "" {
		db = db.Joins("JOIN categories ON categories.id = posts.category_id")
	}
	if f.CategorySlug != "" {
		db = db.Where("categories.slug = ?", f.CategorySlug)
	}
	if f.Search != "" {
		// each token must appear in at least one searchable field
		for _, t := range strings.Fields(f.Search) {
			p := "%" + t + "%"
			db = db.Where("(posts.title ILIKE ? OR posts.content ILIKE ? OR categories.name ILIKE ?)", p, p, p)
		}
	}
	if f.TagSlug != "" {
		db = db.
			Joins("JOIN post_tags pt ON pt.post_id = posts.id").
			Joins("JOIN tags ON tags.id = pt.tag_id").
			Where("tags.slug = ?", f.TagSlug)
	}

	col := "posts.created_at"
	if f.OrderBy == "modified" {
		col = "posts.updated_at"
	}
	dir := " DESC"
	if f.Ascending {
		dir = " ASC"
	}

	var posts []models.Post
	if err := db.
		Preload("Category").
		Preload("Tags").
		Order(col + dir).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// TitleExists reports whether another post already holds the title or slug.
func (r *postRepository) TitleExists(ctx context.Context, title, slug string, excludeID int64) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("title = ? OR slug = ?", title, slug)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// AggregateEngagement computes like_count and average_rating for every
// requested post in a single grouped query. Posts without relations are
// simply absent from the result map.
func (r *postRepository) AggregateEngagement(ctx context.Context, postIDs []int64) (map[int64]PostAggregate, error) {
	result := make(map[int64]PostAggregate, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var rows []PostAggregate
	if err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Select("post_id, COUNT(*) FILTER (WHERE liked) AS like_count, AVG(rating) AS average_rating").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate engagement: %w", err)
	}

	for _, row := range rows {
		result[row.PostID] = row
	}
	return result, nil
}

// LikedPostIDs returns the subset of postIDs the user has liked.
func (r *postRepository) LikedPostIDs(ctx context.Context, userID string, postIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	if err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Where("user_id = ? AND liked AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("liked post ids: %w", err)
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func replaceTags(tx *gorm.DB, post *models.Post, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	tags := make([]models.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, models.Tag{ID: id})
	}
	if err := tx.Model(post).Association("Tags").Append(&tags); err != nil {
		return fmt.Errorf("append tags: %w", err)
	}
	return nil
}
