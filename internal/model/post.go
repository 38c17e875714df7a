package model

import "time"

// Post 帖子，评论按 Seq 追加
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_post_author;not null"`
	Content   string    `gorm:"type:text;not null"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"index:idx_post_created"`
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }

// PostView 返回给客户端的帖子（作者已解析）
type PostView struct {
	ID        string        `json:"id"`
	Author    PublicUser    `json:"author"`
	Content   string        `json:"content"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
