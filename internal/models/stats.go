package models

// PostStats holds the per-post aggregates shown next to a post
type PostStats struct {
	LikesCount    int64
	CommentsCount int64 // top-level comments only
	LikedByViewer bool
}

// CommentStats holds the per-comment aggregates shown next to a comment
type CommentStats struct {
	LikesCount    int64
	RepliesCount  int64
	LikedByViewer bool
}
