package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/socialverse/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	// ListAll 按创建时间倒序返回全部帖子，评论按追加顺序预加载
	ListAll(ctx context.Context) ([]*model.Post, error)
	// AppendComment 单条 INSERT 追加评论，不重写整篇帖子
	AppendComment(ctx context.Context, c *model.Comment) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func orderComments(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return r.db.WithContext(ctx).Omit("Comments").Create(p).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", orderComments).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", orderComments).
		Order("created_at DESC, id DESC").
		Find(&res).Error
	return res, err
}

func (r *postRepository) AppendComment(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("id = ?", c.PostID).
			UpdateColumn("updated_at", c.CreatedAt).Error
	})
}
