package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jomosquito/Edmonton-v.02/internal/dto"
	"github.com/jomosquito/Edmonton-v.02/internal/service"
	"github.com/jomosquito/Edmonton-v.02/pkg/response"
)

// ProfileHandler 用户档案模块 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetMe 获取当前用户档案
// GET /api/v1/profiles/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.GetMe(c.Request.Context(), userID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// UpdateMe 更新当前用户档案（仅本人可改字段）
// PUT /api/v1/profiles/me
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	profile, err := h.profileSvc.UpdateMe(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// ListProfiles 分页获取用户列表（管理端）
// GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.profileSvc.List(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, result.Items, result.Total, page.GetPage(), page.GetPageSize())
}

// GetProfile 获取指定用户档案（管理端）
// GET /api/v1/profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	profile, err := h.profileSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// AdminUpdateProfile 管理端更新用户档案
// PUT /api/v1/profiles/:id
func (h *ProfileHandler) AdminUpdateProfile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	var req dto.AdminUpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.AdminUpdate(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// SetActive 启用/停用用户账号
// PUT /api/v1/profiles/:id/active
func (h *ProfileHandler) SetActive(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.profileSvc.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, nil)
}

// AssignRole 为用户分配角色（可按院系作用域限定）
// POST /api/v1/profiles/:id/roles
func (h *ProfileHandler) AssignRole(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.profileSvc.AssignRole(c.Request.Context(), id, &req, callerID); err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.Created(c, nil)
}

// RemoveRole 移除用户角色
// DELETE /api/v1/profiles/:id/roles/:role
func (h *ProfileHandler) RemoveRole(c *gin.Context) {
	id := c.Param("id")
	roleName := c.Param("role")
	if id == "" || roleName == "" {
		response.BadRequest(c, 10001, "用户ID与角色名不能为空")
		return
	}

	if err := h.profileSvc.RemoveRole(c.Request.Context(), id, roleName); err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleProfileError 统一处理用户档案模块业务错误
func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrRoleAlreadyAssigned):
		response.Conflict(c, 12002, "用户已持有该角色")
	case errors.Is(err, service.ErrRoleNotAssigned):
		response.BadRequest(c, 12003, "用户未持有该角色")
	case errors.Is(err, service.ErrUnknownRole):
		response.BadRequest(c, 12004, "角色名不在标准角色集内")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/profile_handler.go
