package db

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/picfeed/picfeed/internal/models"
)

// PostRepository provides post and post-like database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// uuidCount is one row of a grouped COUNT(*) keyed by a UUID column
type uuidCount struct {
	Key   uuid.UUID `gorm:"column:ref"`
	Count int64     `gorm:"column:n"`
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return first[models.Post](r.db.WithContext(ctx).Where("id = ?", id))
}

// Exists reports whether a post with the given ID exists
func (r *PostRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// CreateBatch inserts many posts at once
func (r *PostRepository) CreateBatch(ctx context.Context, posts []*models.Post, batchSize int) error {
	if len(posts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(posts, batchSize).Error
}

// Delete removes a post; its likes and comments go with it via cascade
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{}).Error
}

// ListByUser returns every post by userID, newest first
func (r *PostRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// ListByAuthors returns one page of posts written by any of authorIDs, newest first
func (r *PostRepository) ListByAuthors(ctx context.Context, authorIDs []int64, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if len(authorIDs) == 0 {
		return posts, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// Stats loads like counts, top-level comment counts and the viewer's like
// state for every post in ids with a fixed number of queries
func (r *PostRepository) Stats(ctx context.Context, ids []uuid.UUID, viewerID int64) (map[uuid.UUID]models.PostStats, error) {
	out := make(map[uuid.UUID]models.PostStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	for _, id := range ids {
		out[id] = models.PostStats{}
	}

	var likes []uuidCount
	if err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Select("post_id AS ref, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, row := range likes {
		s := out[row.Key]
		s.LikesCount = row.Count
		out[row.Key] = s
	}

	var comments []uuidCount
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id AS ref, COUNT(*) AS n").
		Where("post_id IN ? AND parent_comment_id IS NULL", ids).
		Group("post_id").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	for _, row := range comments {
		s := out[row.Key]
		s.CommentsCount = row.Count
		out[row.Key] = s
	}

	var liked []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id IN ? AND user_id = ?", ids, viewerID).
		Pluck("post_id", &liked).Error; err != nil {
		return nil, err
	}
	for _, id := range liked {
		s := out[id]
		s.LikedByViewer = true
		out[id] = s
	}

	return out, nil
}

// InsertLike records a like unless one already exists for (post, user)
func (r *PostRepository) InsertLike(ctx context.Context, like *models.PostLike) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	return res.RowsAffected > 0, res.Error
}

// InsertLikesBatch adds many likes, skipping duplicates
func (r *PostRepository) InsertLikesBatch(ctx context.Context, likes []*models.PostLike, batchSize int) error {
	if len(likes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(likes, batchSize).Error
}

// DeleteLike removes the like for (post, user) if present
func (r *PostRepository) DeleteLike(ctx context.Context, postID uuid.UUID, userID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{})
	return res.RowsAffected > 0, res.Error
}
