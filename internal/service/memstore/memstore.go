// Package memstore keeps users, follows, posts and comments in process
// memory, honoring the unique constraints and cascading deletes of the
// relational schema.
package memstore

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/picfeed/picfeed/internal/models"
)

// Store holds every table
type Store struct {
	mu           sync.Mutex
	nextUserID   int64
	users        map[int64]models.User
	follows      []models.Follow
	posts        map[uuid.UUID]models.Post
	comments     map[uuid.UUID]models.Comment
	postLikes    []models.PostLike
	commentLikes []models.CommentLike
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:    map[int64]models.User{},
		posts:    map[uuid.UUID]models.Post{},
		comments: map[uuid.UUID]models.Comment{},
	}
}

// Users is the user table
type Users struct{ *Store }

// Follows is the follow-edge table
type Follows struct{ *Store }

// Posts is the post and post-like tables
type Posts struct{ *Store }

// Comments is the comment and comment-like tables
type Comments struct{ *Store }

// Users returns the user table
func (m *Store) Users() Users { return Users{m} }

// Follows returns the follow-edge table
func (m *Store) Follows() Follows { return Follows{m} }

// Posts returns the post tables
func (m *Store) Posts() Posts { return Posts{m} }

// Comments returns the comment tables
func (m *Store) Comments() Comments { return Comments{m} }

// User returns a copy of the stored user row
func (m *Store) User(id int64) (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	return u, ok
}

// HasComment reports whether the comment row still exists
func (m *Store) HasComment(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.comments[id]
	return ok
}

// Counts returns the number of comment, post-like and comment-like rows
func (m *Store) Counts() (comments, postLikes, commentLikes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.comments), len(m.postLikes), len(m.commentLikes)
}

func (m *Store) findUser(match func(models.User) bool) *models.User {
	for _, u := range m.users {
		if match(u) {
			out := u
			return &out
		}
	}
	return nil
}

func (s Users) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool { return u.ID == id }), nil
}

func (s Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool { return u.Username == username }), nil
}

func (s Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool { return u.Email == email }), nil
}

func (s Users) GetByLogin(_ context.Context, login string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool { return u.Username == login || u.Email == login }), nil
}

func (s Users) GetByIDs(_ context.Context, ids []int64) (map[int64]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64]*models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			u := u
			out[id] = &u
		}
	}
	return out, nil
}

func (s Users) GetByResetToken(_ context.Context, email, token string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool {
		return u.Email == email && u.PasswordResetToken.Valid && u.PasswordResetToken.String == token &&
			u.PasswordResetTokenExpires.Valid && u.PasswordResetTokenExpires.Time.After(now)
	}), nil
}

func (s Users) GetByVerificationToken(_ context.Context, email, token string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool {
		return u.Email == email && u.EmailVerificationToken.Valid && u.EmailVerificationToken.String == token &&
			u.EmailVerificationTokenExpires.Valid && u.EmailVerificationTokenExpires.Time.After(now)
	}), nil
}

func (s Users) UsernameTaken(_ context.Context, username string, exceptID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool { return u.Username == username && u.ID != exceptID }) != nil, nil
}

func (s Users) EmailTaken(_ context.Context, email string, exceptID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u models.User) bool { return u.Email == email && u.ID != exceptID }) != nil, nil
}

func (s Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	s.users[user.ID] = *user
	return nil
}

func (s Users) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s Follows) FolloweeIDs(_ context.Context, followerID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, f := range s.follows {
		if f.FollowerID == followerID {
			ids = append(ids, f.FolloweeID)
		}
	}
	return ids, nil
}

func (s Follows) IsFollowing(_ context.Context, followerID, followeeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.follows {
		if f.FollowerID == followerID && f.FolloweeID == followeeID {
			return true, nil
		}
	}
	return false, nil
}

func (s Follows) Insert(_ context.Context, follow *models.Follow) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if follow.FollowerID == follow.FolloweeID {
		return false, errors.New("violates check constraint chk_follows_no_self")
	}
	for _, f := range s.follows {
		if f.FollowerID == follow.FollowerID && f.FolloweeID == follow.FolloweeID {
			return false, nil
		}
	}
	s.follows = append(s.follows, *follow)
	return true, nil
}

func (s Follows) Delete(_ context.Context, followerID, followeeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.follows {
		if f.FollowerID == followerID && f.FolloweeID == followeeID {
			s.follows = append(s.follows[:i], s.follows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s Follows) CountFollowers(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, f := range s.follows {
		if f.FolloweeID == userID {
			n++
		}
	}
	return n, nil
}

func (s Follows) CountFollowing(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, f := range s.follows {
		if f.FollowerID == userID {
			n++
		}
	}
	return n, nil
}

func newestFirst(posts []*models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return bytes.Compare(posts[i].ID[:], posts[j].ID[:]) > 0
	})
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (s Posts) GetByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.posts[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s Posts) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.posts[id]
	return ok, nil
}

func (s Posts) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = *post
	return nil
}

func (s Posts) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	kept := s.postLikes[:0]
	for _, l := range s.postLikes {
		if l.PostID != id {
			kept = append(kept, l)
		}
	}
	s.postLikes = kept
	for cid, c := range s.comments {
		if c.PostID == id {
			s.deleteCommentLocked(cid)
		}
	}
	return nil
}

func (s Posts) ListByUser(_ context.Context, userID int64) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Post
	for _, p := range s.posts {
		if p.UserID == userID {
			p := p
			out = append(out, &p)
		}
	}
	newestFirst(out)
	return out, nil
}

func (s Posts) ListByAuthors(_ context.Context, authorIDs []int64, limit, offset int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	authors := map[int64]bool{}
	for _, id := range authorIDs {
		authors[id] = true
	}
	var out []*models.Post
	for _, p := range s.posts {
		if authors[p.UserID] {
			p := p
			out = append(out, &p)
		}
	}
	newestFirst(out)
	return window(out, limit, offset), nil
}

func (s Posts) Stats(_ context.Context, ids []uuid.UUID, viewerID int64) (map[uuid.UUID]models.PostStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[uuid.UUID]models.PostStats{}
	for _, id := range ids {
		var st models.PostStats
		for _, l := range s.postLikes {
			if l.PostID == id {
				st.LikesCount++
				if l.UserID == viewerID {
					st.LikedByViewer = true
				}
			}
		}
		for _, c := range s.comments {
			if c.PostID == id && c.ParentCommentID == nil {
				st.CommentsCount++
			}
		}
		out[id] = st
	}
	return out, nil
}

func (s Posts) InsertLike(_ context.Context, like *models.PostLike) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.postLikes {
		if l.PostID == like.PostID && l.UserID == like.UserID {
			return false, nil
		}
	}
	s.postLikes = append(s.postLikes, *like)
	return true, nil
}

func (s Posts) DeleteLike(_ context.Context, postID uuid.UUID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.postLikes {
		if l.PostID == postID && l.UserID == userID {
			s.postLikes = append(s.postLikes[:i], s.postLikes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// deleteCommentLocked removes a comment, its replies and all their likes
func (m *Store) deleteCommentLocked(id uuid.UUID) {
	for cid, c := range m.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == id {
			m.deleteCommentLocked(cid)
		}
	}
	delete(m.comments, id)
	kept := m.commentLikes[:0]
	for _, l := range m.commentLikes {
		if l.CommentID != id {
			kept = append(kept, l)
		}
	}
	m.commentLikes = kept
}

func (s Comments) GetByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.comments[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s Comments) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.comments[id]
	return ok, nil
}

func (s Comments) Create(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.ID] = *comment
	return nil
}

func (s Comments) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCommentLocked(id)
	return nil
}

func (s Comments) list(match func(models.Comment) bool, limit, offset int) (int64, []*models.Comment) {
	var out []*models.Comment
	for _, c := range s.comments {
		if match(c) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return int64(len(out)), window(out, limit, offset)
}

func (s Comments) ListTopLevel(_ context.Context, postID uuid.UUID, limit, offset int) (int64, []*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total, items := s.list(func(c models.Comment) bool {
		return c.PostID == postID && c.ParentCommentID == nil
	}, limit, offset)
	return total, items, nil
}

func (s Comments) ListReplies(_ context.Context, parentID uuid.UUID, limit, offset int) (int64, []*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total, items := s.list(func(c models.Comment) bool {
		return c.ParentCommentID != nil && *c.ParentCommentID == parentID
	}, limit, offset)
	return total, items, nil
}

func (s Comments) Stats(_ context.Context, ids []uuid.UUID, viewerID int64) (map[uuid.UUID]models.CommentStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[uuid.UUID]models.CommentStats{}
	for _, id := range ids {
		var st models.CommentStats
		for _, l := range s.commentLikes {
			if l.CommentID == id {
				st.LikesCount++
				if l.UserID == viewerID {
					st.LikedByViewer = true
				}
			}
		}
		for _, c := range s.comments {
			if c.ParentCommentID != nil && *c.ParentCommentID == id {
				st.RepliesCount++
			}
		}
		out[id] = st
	}
	return out, nil
}

func (s Comments) InsertLike(_ context.Context, like *models.CommentLike) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.commentLikes {
		if l.CommentID == like.CommentID && l.UserID == like.UserID {
			return false, nil
		}
	}
	s.commentLikes = append(s.commentLikes, *like)
	return true, nil
}

func (s Comments) DeleteLike(_ context.Context, commentID uuid.UUID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.commentLikes {
		if l.CommentID == commentID && l.UserID == userID {
			s.commentLikes = append(s.commentLikes[:i], s.commentLikes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

