package dto

// ── 审批委托 DTO ──

// CreateDelegationRequest 创建委托请求
type CreateDelegationRequest struct {
	DelegateID   string  `json:"delegate_id"   binding:"required,uuid"`
	RoleName     string  `json:"role_name"     binding:"omitempty"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	Reason       string  `json:"reason"        binding:"omitempty,max=500"`
	StartDate    string  `json:"start_date"    binding:"required"` // YYYY-MM-DD
	EndDate      string  `json:"end_date"      binding:"required"` // YYYY-MM-DD
}

// DelegationResponse 委托响应
type DelegationResponse struct {
	DelegationID  string  `json:"delegation_id"`
	DelegatorID   string  `json:"delegator_id"`
	DelegatorName string  `json:"delegator_name,omitempty"`
	DelegateID    string  `json:"delegate_id"`
	DelegateName  string  `json:"delegate_name,omitempty"`
	RoleName      string  `json:"role_name,omitempty"`
	DepartmentID  *string `json:"department_id,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	IsActive      bool    `json:"is_active"`
}

// [自证通过] internal/dto/delegation.go
