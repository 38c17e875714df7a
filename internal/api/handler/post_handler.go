package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/socialverse/internal/middleware"
	"github.com/d60-Lab/socialverse/pkg/response"
)

type contentRequest struct {
	Content string `json:"content" binding:"required,notblank"`
}

// CreatePost 发帖
// @Summary 发布帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body contentRequest true "帖子内容"
// @Success 201 {object} model.PostView
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	post, err := h.contentService.CreatePost(c.Request.Context(), middleware.UserID(c), req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, post)
}

// ListPosts 全部帖子
// @Summary 帖子列表（按创建时间倒序，不分页）
// @Tags 帖子
// @Produce json
// @Success 200 {array} model.PostView
// @Failure 500 {object} response.Error
// @Router /api/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.contentService.ListPosts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, posts)
}

// GetPost 单个帖子
// @Summary 查询帖子
// @Tags 帖子
// @Produce json
// @Param postId path string true "帖子ID"
// @Success 200 {object} model.PostView
// @Failure 404 {object} response.Error
// @Router /api/posts/{postId} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.contentService.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, post)
}

// AddComment 评论
// @Summary 追加评论
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path string true "帖子ID"
// @Param request body contentRequest true "评论内容"
// @Success 201 {object} model.CommentView
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /api/posts/{postId}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	postID := c.Param("postId")
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 帖子不存在优先返回 404
		if gErr := h.contentService.EnsurePost(c.Request.Context(), postID); gErr != nil {
			fail(c, gErr)
			return
		}
		bindFailed(c, err)
		return
	}
	comment, err := h.contentService.AddComment(c.Request.Context(), middleware.UserID(c), postID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, comment)
}
