package db

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/picfeed/picfeed/internal/models"
)

// CommentRepository provides comment and comment-like database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return first[models.Comment](r.db.WithContext(ctx).Where("id = ?", id))
}

// Exists reports whether a comment with the given ID exists
func (r *CommentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// CreateBatch inserts many comments at once. Parents must precede their replies.
func (r *CommentRepository) CreateBatch(ctx context.Context, comments []*models.Comment, batchSize int) error {
	if len(comments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(comments, batchSize).Error
}

// Delete removes a comment; its replies and likes go with it via cascade
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{}).Error
}

// page counts the rows matched by scope and loads one oldest-first page
func (r *CommentRepository) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, limit, offset int) (int64, []*models.Comment, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Scopes(scope).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	comments := []*models.Comment{}
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return total, comments, err
}

// ListTopLevel returns the number of top-level comments on postID and one page of them
func (r *CommentRepository) ListTopLevel(ctx context.Context, postID uuid.UUID, limit, offset int) (int64, []*models.Comment, error) {
	return r.page(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("post_id = ? AND parent_comment_id IS NULL", postID)
	}, limit, offset)
}

// ListReplies returns the number of replies to parentID and one page of them
func (r *CommentRepository) ListReplies(ctx context.Context, parentID uuid.UUID, limit, offset int) (int64, []*models.Comment, error) {
	return r.page(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("parent_comment_id = ?", parentID)
	}, limit, offset)
}

// Stats loads like counts, reply counts and the viewer's like state for
// every comment in ids with a fixed number of queries
func (r *CommentRepository) Stats(ctx context.Context, ids []uuid.UUID, viewerID int64) (map[uuid.UUID]models.CommentStats, error) {
	out := make(map[uuid.UUID]models.CommentStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	for _, id := range ids {
		out[id] = models.CommentStats{}
	}

	var likes []uuidCount
	if err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Select("comment_id AS ref, COUNT(*) AS n").
		Where("comment_id IN ?", ids).
		Group("comment_id").
		Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, row := range likes {
		s := out[row.Key]
		s.LikesCount = row.Count
		out[row.Key] = s
	}

	var replies []uuidCount
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("parent_comment_id AS ref, COUNT(*) AS n").
		Where("parent_comment_id IN ?", ids).
		Group("parent_comment_id").
		Find(&replies).Error; err != nil {
		return nil, err
	}
	for _, row := range replies {
		s := out[row.Key]
		s.RepliesCount = row.Count
		out[row.Key] = s
	}

	var liked []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id IN ? AND user_id = ?", ids, viewerID).
		Pluck("comment_id", &liked).Error; err != nil {
		return nil, err
	}
	for _, id := range liked {
		s := out[id]
		s.LikedByViewer = true
		out[id] = s
	}

	return out, nil
}

// InsertLike records a like unless one already exists for (comment, user)
func (r *CommentRepository) InsertLike(ctx context.Context, like *models.CommentLike) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	return res.RowsAffected > 0, res.Error
}

// InsertLikesBatch adds many likes, skipping duplicates
func (r *CommentRepository) InsertLikesBatch(ctx context.Context, likes []*models.CommentLike, batchSize int) error {
	if len(likes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(likes, batchSize).Error
}

// DeleteLike removes the like for (comment, user) if present
func (r *CommentRepository) DeleteLike(ctx context.Context, commentID uuid.UUID, userID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentLike{})
	return res.RowsAffected > 0, res.Error
}
