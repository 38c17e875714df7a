package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound 记录不存在
	ErrRecordNotFound = gorm.ErrRecordNotFound
	// ErrDuplicateKey 唯一索引冲突
	ErrDuplicateKey = gorm.ErrDuplicatedKey
)

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrRecordNotFound) }

// IsDuplicate reports whether err is a unique constraint violation. Drivers
// without error translation are matched on their message.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
