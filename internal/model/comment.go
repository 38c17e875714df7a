package model

import "time"

// Comment 评论，只追加不修改。Seq 由数据库自增分配，决定帖子内顺序。
type Comment struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement"`
	ID        string    `gorm:"type:varchar(36);uniqueIndex:ux_comments_id;not null"`
	PostID    string    `gorm:"type:varchar(36);index:idx_comment_post;not null"`
	AuthorID  string    `gorm:"type:varchar(36);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Comment) TableName() string { return "comments" }

// CommentView 返回给客户端的评论（作者已解析）
type CommentView struct {
	ID        string     `json:"id"`
	PostID    string     `json:"postId"`
	Author    PublicUser `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
