package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bikeblog/internal/dto"
	"bikeblog/internal/models"
	"bikeblog/internal/repository"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// HomeCacheKey holds the anonymous aggregated ordered published list.
const HomeCacheKey = "home_cache"

// ListQuery narrows a collection read. The zero value (plus a page) is the
// home collection, which is the only cacheable shape.
type ListQuery struct {
	Title        string
	Search       string
	CategorySlug string
	TagSlug      string
	Ordering     string // "created", "-created", "modified", "-modified"
	Page         int

	// NotFoundWhenEmpty makes an empty result (including an out-of-range
	// page) a not-found instead of an empty page. Set for category and tag
	// collections; the home collection serves empty pages.
	NotFoundWhenEmpty bool
}

func (q ListQuery) filtered() bool {
	return q.Title != "" || q.Search != "" || q.CategorySlug != "" || q.TagSlug != "" ||
		(q.Ordering != "" && q.Ordering != "-created")
}

type PostService interface {
	List(ctx context.Context, viewer *Identity, q ListQuery) (*dto.PaginatedPostResponse, error)
	GetBySlug(ctx context.Context, viewer *Identity, slug string) (*dto.PostDetailResponse, error)
	Create(ctx context.Context, viewer Identity, in dto.CreatePostDTO) (*dto.AggregatedPost, error)
	Update(ctx context.Context, viewer Identity, slug string, in dto.UpdatePostDTO) (*dto.AggregatedPost, error)
	Delete(ctx context.Context, viewer Identity, slug string) error
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	relationRepo repository.RelationRepository
	cache        Cache
	notifier     Notifier
	pageSize     int
	cacheTTL     time.Duration
	logger       *slog.Logger
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	relationRepo repository.RelationRepository,
	cache Cache,
	notifier Notifier,
	pageSize int,
	cacheTTL time.Duration,
	logger *slog.Logger,
) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		relationRepo: relationRepo,
		cache:        cache,
		notifier:     notifier,
		pageSize:     pageSize,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// List serves a page of the aggregated published collection. The anonymous
// unfiltered collection is read through the home cache; any filter or an
// authenticated viewer bypasses the cache so per-user state is never
// computed from (or leaked into) the shared snapshot.
func (s *postService) List(ctx context.Context, viewer *Identity, q ListQuery) (*dto.PaginatedPostResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	var posts []dto.AggregatedPost
	if viewer == nil && !q.filtered() {
		found, err := s.cache.GetJSON(ctx, HomeCacheKey, &posts)
		if err != nil {
			// cache faults degrade to recomputation
			s.logger.Warn("home cache read failed", "error", err)
			found = false
		}
		if !found {
			posts, err = s.aggregate(ctx, nil, q)
			if err != nil {
				return nil, err
			}
			if err := s.cache.SetJSON(ctx, HomeCacheKey, posts, s.cacheTTL); err != nil {
				s.logger.Warn("home cache write failed", "error", err)
			}
		}
	} else {
		var err error
		posts, err = s.aggregate(ctx, viewer, q)
		if err != nil {
			return nil, err
		}
	}

	total := len(posts)
	if q.NotFoundWhenEmpty && total == 0 {
		return nil, ErrEmptyPage
	}

	start := (page - 1) * s.pageSize
	if start > total {
		start = total
	}
	end := start + s.pageSize
	if end > total {
		end = total
	}
	pageData := posts[start:end]
	if q.NotFoundWhenEmpty && len(pageData) == 0 {
		return nil, ErrEmptyPage
	}

	return dto.NewPaginatedPostResponse(pageData, total, page, s.pageSize), nil
}

// aggregate runs the bulk engagement computation over the candidate set:
// one grouped query for counts and averages, plus one keyed query for the
// viewer's liked set when authenticated. Never per-post queries.
func (s *postService) aggregate(ctx context.Context, viewer *Identity, q ListQuery) ([]dto.AggregatedPost, error) {
	orderBy, ascending := parseOrdering(q.Ordering)
	posts, err := s.postRepo.List(ctx, repository.ListFilter{
		Title:         q.Title,
		Search:        q.Search,
		CategorySlug:  q.CategorySlug,
		TagSlug:       q.TagSlug,
		OrderBy:       orderBy,
		Ascending:     ascending,
		PublishedOnly: true,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	aggregates, err := s.postRepo.AggregateEngagement(ctx, ids)
	if err != nil {
		return nil, err
	}

	var likedSet map[int64]bool
	if viewer != nil {
		likedSet, err = s.postRepo.LikedPostIDs(ctx, viewer.UserID, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]dto.AggregatedPost, 0, len(posts))
	for i := range posts {
		agg := aggregates[posts[i].ID]
		var liked *bool
		if viewer != nil {
			v := likedSet[posts[i].ID]
			liked = &v
		}
		out = append(out, dto.NewAggregatedPost(&posts[i], agg.LikeCount, agg.AverageRating, liked))
	}
	return out, nil
}

// GetBySlug returns the aggregated detail view of a published post.
func (s *postService) GetBySlug(ctx context.Context, viewer *Identity, postSlug string) (*dto.PostDetailResponse, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	aggregates, err := s.postRepo.AggregateEngagement(ctx, []int64{post.ID})
	if err != nil {
		return nil, err
	}
	agg := aggregates[post.ID]

	var liked *bool
	var myRating *int
	if viewer != nil {
		relation, err := s.relationRepo.GetByUserAndPost(ctx, viewer.UserID, post.ID)
		switch {
		case err == nil:
			liked = &relation.Liked
			myRating = relation.Rating
		case errors.Is(err, gorm.ErrRecordNotFound):
			v := false
			liked = &v
		default:
			return nil, err
		}
	}

	return &dto.PostDetailResponse{
		AggregatedPost: dto.NewAggregatedPost(post, agg.LikeCount, agg.AverageRating, liked),
		MyRating:       myRating,
	}, nil
}

// Create stores a new post authored by the viewer. The slug is derived from
// the title (transliterated, URL-safe); the home cache is evicted before
// returning.
func (s *postService) Create(ctx context.Context, viewer Identity, in dto.CreatePostDTO) (*dto.AggregatedPost, error) {
	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if err := s.checkTags(ctx, in.TagIDs); err != nil {
		return nil, err
	}

	postSlug := slug.Make(in.Title)
	taken, err := s.postRepo.TitleExists(ctx, in.Title, postSlug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTitleTaken
	}

	status := models.StatusPublished
	if in.IsPublished != nil {
		status = *in.IsPublished
	}
	authorID := viewer.UserID
	post := &models.Post{
		Title:       in.Title,
		Slug:        postSlug,
		Content:     in.Content,
		Photo:       in.Photo,
		IsPublished: status,
		CategoryID:  in.CategoryID,
		AuthorID:    &authorID,
	}
	if err := s.postRepo.Create(ctx, post, in.TagIDs); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrTitleTaken
		}
		return nil, err
	}

	s.invalidateHomeCache(ctx)
	// drafts are not announced
	if s.notifier != nil && post.Published() {
		s.notifier.PostCreated(post.ID, post.Title, viewer.UserID)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	view := dto.NewAggregatedPost(created, 0, nil, nil)
	return &view, nil
}

// Update applies a partial update. Only the author or an admin may mutate;
// the slug is recomputed from the title on every save.
func (s *postService) Update(ctx context.Context, viewer Identity, postSlug string, in dto.UpdatePostDTO) (*dto.AggregatedPost, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if !s.canMutate(viewer, post) {
		return nil, ErrForbidden
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}
	if err := s.checkTags(ctx, in.TagIDs); err != nil {
		return nil, err
	}

	in.ApplyTo(post)
	post.Slug = slug.Make(post.Title)
	taken, err := s.postRepo.TitleExists(ctx, post.Title, post.Slug, post.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTitleTaken
	}

	if err := s.postRepo.Update(ctx, post, in.TagIDs); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrTitleTaken
		}
		return nil, err
	}

	s.invalidateHomeCache(ctx)

	updated, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	aggregates, err := s.postRepo.AggregateEngagement(ctx, []int64{updated.ID})
	if err != nil {
		return nil, err
	}
	agg := aggregates[updated.ID]
	view := dto.NewAggregatedPost(updated, agg.LikeCount, agg.AverageRating, nil)
	return &view, nil
}

func (s *postService) Delete(ctx context.Context, viewer Identity, postSlug string) error {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if !s.canMutate(viewer, post) {
		return ErrForbidden
	}

	if err := s.postRepo.Delete(ctx, post); err != nil {
		return err
	}

	s.invalidateHomeCache(ctx)
	return nil
}

func (s *postService) canMutate(viewer Identity, post *models.Post) bool {
	if viewer.Admin {
		return true
	}
	return post.AuthorID != nil && *post.AuthorID == viewer.UserID
}

func (s *postService) checkTags(ctx context.Context, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	count, err := s.tagRepo.CountByIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	if count != int64(len(tagIDs)) {
		return ErrTagNotFound
	}
	return nil
}

func (s *postService) invalidateHomeCache(ctx context.Context) {
	if err := s.cache.Del(ctx, HomeCacheKey); err != nil {
		s.logger.Warn("home cache eviction failed", "error", err)
	}
}

func parseOrdering(ordering string) (orderBy string, ascending bool) {
	switch ordering {
	case "created":
		return "created", true
	case "modified":
		return "modified", true
	case "-modified":
		return "modified", false
	default:
		return "created", false
	}
}
