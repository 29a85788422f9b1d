package handler

import (
	"github.com/jomosquito/Edmonton-v.02/config"
	"github.com/jomosquito/Edmonton-v.02/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Profile    *ProfileHandler
	Department *DepartmentHandler
	OrgUnit    *OrgUnitHandler
	Request    *RequestHandler
	Approval   *ApprovalHandler
	Workflow   *WorkflowHandler
	Delegation *DelegationHandler
	History    *HistoryHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Profile:    NewProfileHandler(svc.Profile),
		Department: NewDepartmentHandler(svc.Department),
		OrgUnit:    NewOrgUnitHandler(svc.OrgUnit),
		Request:    NewRequestHandler(svc.Request, cfg.Storage.PDFDir),
		Approval:   NewApprovalHandler(svc.Approval),
		Workflow:   NewWorkflowHandler(svc.Workflow),
		Delegation: NewDelegationHandler(svc.Delegation),
		History:    NewHistoryHandler(svc.History),
	}
}

// [自证通过] internal/api/handler/handler.go
