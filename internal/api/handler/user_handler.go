package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/socialverse/pkg/response"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required,notblank,max=64"`
	Password string `json:"password" binding:"required,max=72"`
}

// Register 注册
// @Summary 注册新用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "用户名与密码"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/users/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	res, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, res)
}

// Login 登录
// @Summary 用户登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "用户名与密码"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} response.Error
// @Router /api/users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	res, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, res)
}
