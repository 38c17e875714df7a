// Package response 统一 JSON 错误输出
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is the body of every non-2xx API response.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func OK(c *gin.Context, v any) { c.JSON(http.StatusOK, v) }

func Created(c *gin.Context, v any) { c.JSON(http.StatusCreated, v) }

// Fail aborts the chain and writes an error body.
func Fail(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, Error{Message: msg, Code: code})
}

func BadRequest(c *gin.Context, code, msg string) {
	Fail(c, http.StatusBadRequest, code, msg)
}

func Unauthorized(c *gin.Context, msg string) {
	Fail(c, http.StatusUnauthorized, "Unauthenticated", msg)
}

func NotFound(c *gin.Context, msg string) {
	Fail(c, http.StatusNotFound, "NotFound", msg)
}

func TooManyRequests(c *gin.Context) {
	Fail(c, http.StatusTooManyRequests, "RateLimited", "too many requests")
}

// InternalError hides err from the client; callers log it.
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	Fail(c, http.StatusInternalServerError, "StoreFailure", "internal server error")
}
