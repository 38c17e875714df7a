package model

import "time"

// User 账号（用户名唯一）
type User struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Username     string `gorm:"type:varchar(64);uniqueIndex:ux_users_username;not null"`
	PasswordHash string `gorm:"type:varchar(72);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

// PublicUser 对外暴露的用户字段
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() PublicUser { return PublicUser{ID: u.ID, Username: u.Username} }
