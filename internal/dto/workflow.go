package dto

// ── 审批流程管理 DTO（管理端）──

// CreateWorkflowRequest 创建审批流程请求
type CreateWorkflowRequest struct {
	FormType     string                  `json:"form_type"     binding:"required"`
	DepartmentID *string                 `json:"department_id" binding:"omitempty,uuid"`
	OrgUnitID    *string                 `json:"org_unit_id"   binding:"omitempty,uuid"`
	IsActive     bool                    `json:"is_active"`
	Steps        []CreateWorkflowStepReq `json:"steps"         binding:"required,min=1,dive"`
}

// CreateWorkflowStepReq 流程步骤定义
type CreateWorkflowStepReq struct {
	StepOrder    int     `json:"step_order"    binding:"required,min=1"`
	RoleName     string  `json:"role_name"     binding:"required"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	OrgUnitID    *string `json:"org_unit_id"   binding:"omitempty,uuid"`
	MinApprovers int     `json:"min_approvers" binding:"omitempty,min=1"`
}

// UpdateWorkflowRequest 更新审批流程请求
type UpdateWorkflowRequest struct {
	IsActive *bool `json:"is_active"`
}

// WorkflowResponse 审批流程响应
type WorkflowResponse struct {
	WorkflowID   string                 `json:"workflow_id"`
	FormType     string                 `json:"form_type"`
	DepartmentID *string                `json:"department_id,omitempty"`
	OrgUnitID    *string                `json:"org_unit_id,omitempty"`
	IsActive     bool                   `json:"is_active"`
	Steps        []WorkflowStepResponse `json:"steps"`
	CreatedAt    string                 `json:"created_at"`
}

// WorkflowStepResponse 流程步骤响应
type WorkflowStepResponse struct {
	StepID       string  `json:"step_id"`
	StepOrder    int     `json:"step_order"`
	RoleID       *string `json:"role_id,omitempty"`
	RoleName     string  `json:"role_name,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	OrgUnitID    *string `json:"org_unit_id,omitempty"`
	MinApprovers int     `json:"min_approvers"`
	IsActive     bool    `json:"is_active"`
}

// ── 阈值配置 DTO ──

// UpsertWorkflowConfigRequest 设置阈值配置请求
type UpsertWorkflowConfigRequest struct {
	FormType          string   `json:"form_type"          binding:"required"`
	RequiredApprovers int      `json:"required_approvers" binding:"required,min=1"`
	RequiredRoles     []string `json:"required_roles"     binding:"required,min=1,dive,max=50"`
}

// WorkflowConfigResponse 阈值配置响应
type WorkflowConfigResponse struct {
	ConfigID          string   `json:"config_id"`
	FormType          string   `json:"form_type"`
	RequiredApprovers int      `json:"required_approvers"`
	RequiredRoles     []string `json:"required_roles"`
}

// [自证通过] internal/dto/workflow.go
