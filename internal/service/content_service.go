package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/socialverse/internal/model"
	"github.com/d60-Lab/socialverse/internal/repository"
)

// ContentService 帖子与评论
type ContentService interface {
	CreatePost(ctx context.Context, authorID, content string) (*model.PostView, error)
	ListPosts(ctx context.Context) ([]*model.PostView, error)
	GetPost(ctx context.Context, postID string) (*model.PostView, error)
	EnsurePost(ctx context.Context, postID string) error
	AddComment(ctx context.Context, authorID, postID, content string) (*model.CommentView, error)
}

type contentService struct {
	posts repository.PostRepository
	users repository.UserLookup
	now   func() time.Time
}

func NewContentService(posts repository.PostRepository, users repository.UserLookup) ContentService {
	return &contentService{posts: posts, users: users, now: time.Now}
}

func (s *contentService) CreatePost(ctx context.Context, authorID, content string) (*model.PostView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	author, err := s.resolveAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &model.Post{ID: uuid.New().String(), AuthorID: authorID, Content: content, CreatedAt: now, UpdatedAt: now}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &model.PostView{
		ID:        p.ID,
		Author:    author,
		Content:   p.Content,
		Comments:  []model.CommentView{},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (s *contentService) ListPosts(ctx context.Context) ([]*model.PostView, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	users, err := s.users.LookupUsers(ctx, authorIDs(posts...))
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	res := make([]*model.PostView, len(posts))
	for i, p := range posts {
		res[i] = toPostView(p, users)
	}
	return res, nil
}

func (s *contentService) GetPost(ctx context.Context, postID string) (*model.PostView, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	users, err := s.users.LookupUsers(ctx, authorIDs(p))
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	return toPostView(p, users), nil
}

// EnsurePost returns ErrNotFound unless the post exists. It does not load comments.
func (s *contentService) EnsurePost(ctx context.Context, postID string) error {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return fmt.Errorf("load post: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	return nil
}

func (s *contentService) AddComment(ctx context.Context, authorID, postID, content string) (*model.CommentView, error) {
	if err := s.EnsurePost(ctx, postID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	author, err := s.resolveAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &model.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.AppendComment(ctx, c); err != nil {
		return nil, fmt.Errorf("append comment: %w", err)
	}
	v := toCommentView(c, map[string]model.PublicUser{authorID: author})
	return &v, nil
}

func (s *contentService) resolveAuthor(ctx context.Context, authorID string) (model.PublicUser, error) {
	users, err := s.users.LookupUsers(ctx, []string{authorID})
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("resolve author: %w", err)
	}
	u, ok := users[authorID]
	if !ok {
		return model.PublicUser{}, fmt.Errorf("%w: user %s", ErrNotFound, authorID)
	}
	return u, nil
}

// authorIDs 收集帖子及其评论的作者 id（去重）
func authorIDs(posts ...*model.Post) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, p := range posts {
		add(p.AuthorID)
		for _, c := range p.Comments {
			add(c.AuthorID)
		}
	}
	return ids
}

// resolved falls back to a bare id when the user no longer exists.
func resolved(users map[string]model.PublicUser, id string) model.PublicUser {
	if u, ok := users[id]; ok {
		return u
	}
	return model.PublicUser{ID: id}
}

func toPostView(p *model.Post, users map[string]model.PublicUser) *model.PostView {
	comments := make([]model.CommentView, len(p.Comments))
	for i := range p.Comments {
		comments[i] = toCommentView(&p.Comments[i], users)
	}
	return &model.PostView{
		ID:        p.ID,
		Author:    resolved(users, p.AuthorID),
		Content:   p.Content,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toCommentView(c *model.Comment, users map[string]model.PublicUser) model.CommentView {
	return model.CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    resolved(users, c.AuthorID),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
