package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/socialverse/internal/model"
)

// UserLookup 按 id 批量解析用户公开字段。未找到的 id 不出现在结果中。
type UserLookup interface {
	LookupUsers(ctx context.Context, ids []string) (map[string]model.PublicUser, error)
}

type dbUserLookup struct {
	db *gorm.DB
}

func NewUserLookup(db *gorm.DB) UserLookup { return &dbUserLookup{db: db} }

func (l *dbUserLookup) LookupUsers(ctx context.Context, ids []string) (map[string]model.PublicUser, error) {
	out := make(map[string]model.PublicUser, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.PublicUser
	err := l.db.WithContext(ctx).
		Model(&model.User{}).
		Select("id", "username").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = u
	}
	return out, nil
}
