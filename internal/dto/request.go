package dto

// ── 表单请求模块 DTO ──
//
// 四类表单各有独立的提交结构；SaveAsDraft 为 true 时仅保存草稿，
// 不进入审批；草稿由本人再次提交后转为 pending。

// SubmitMedicalWithdrawalRequest 医疗/行政退学申请提交
type SubmitMedicalWithdrawalRequest struct {
	FirstName  string `json:"first_name"  binding:"required,max=100"`
	LastName   string `json:"last_name"   binding:"required,max=100"`
	MiddleName string `json:"middle_name" binding:"omitempty,max=100"`
	College    string `json:"college"     binding:"required,max=100"`
	PlanDegree string `json:"plan_degree" binding:"required,max=100"`

	TermYear   string `json:"term_year"   binding:"required,max=50"`
	LastDate   string `json:"last_date"   binding:"required"` // YYYY-MM-DD
	ReasonType string `json:"reason_type" binding:"required,oneof=Medical Administrative"`
	Details    string `json:"details"     binding:"required"`

	FinancialAssistance bool `json:"financial_assistance"`
	HealthInsurance     bool `json:"health_insurance"`
	CampusHousing       bool `json:"campus_housing"`
	VisaStatus          bool `json:"visa_status"`
	GIBill              bool `json:"gi_bill"`

	Courses []string `json:"courses" binding:"omitempty,dive,max=50"`

	SignatureDate string `json:"signature_date" binding:"required"` // YYYY-MM-DD
	SaveAsDraft   bool   `json:"save_as_draft"`
}

// SubmitStudentDropRequest 学生退课申请提交
type SubmitStudentDropRequest struct {
	StudentName string `json:"student_name" binding:"required,max=100"`
	CourseTitle string `json:"course_title" binding:"required,max=200"`
	Reason      string `json:"reason"       binding:"required"`
	DropDate    string `json:"drop_date"    binding:"required"` // YYYY-MM-DD
	SaveAsDraft bool   `json:"save_as_draft"`
}

// SubmitFerpaRequest FERPA 信息发布授权提交
type SubmitFerpaRequest struct {
	StudentName    string   `json:"student_name"    binding:"required,max=100"`
	Campus         string   `json:"campus"          binding:"required,max=100"`
	PeoplesoftID   string   `json:"peoplesoft_id"   binding:"required,max=20"`
	Offices        []string `json:"offices"         binding:"required,min=1,dive,max=100"`
	InfoCategories []string `json:"info_categories" binding:"required,min=1,dive,max=100"`
	ReleaseTo      string   `json:"release_to"      binding:"required,max=200"`
	Purpose        string   `json:"purpose"         binding:"required"`
	PhonePassword  string   `json:"phone_password"  binding:"omitempty,max=10"`
	SaveAsDraft    bool     `json:"save_as_draft"`
}

// SubmitInfoChangeRequest 姓名/SSN 变更申请提交
type SubmitInfoChangeRequest struct {
	PeoplesoftID string `json:"peoplesoft_id" binding:"required,max=20"`

	ChangeName bool `json:"change_name"`
	ChangeSSN  bool `json:"change_ssn"`

	NameFrom   string `json:"name_from"   binding:"omitempty,max=200"`
	NameTo     string `json:"name_to"     binding:"omitempty,max=200"`
	NameReason string `json:"name_reason" binding:"omitempty,oneof=marital court_order correction"`

	SSNFrom   string `json:"ssn_from"   binding:"omitempty,max=20"`
	SSNTo     string `json:"ssn_to"     binding:"omitempty,max=20"`
	SSNReason string `json:"ssn_reason" binding:"omitempty,oneof=new_number correction"`

	SaveAsDraft bool `json:"save_as_draft"`
}

// ── 响应 ──

// RequestSummaryResponse 表单请求摘要
type RequestSummaryResponse struct {
	RequestID     string   `json:"request_id"`
	FormType      string   `json:"form_type"`
	UserID        string   `json:"user_id"`
	Status        string   `json:"status"`
	GeneratedPDFs []string `json:"generated_pdfs,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

// RequestDetailResponse 表单请求详情（含业务字段与审批轨迹）
type RequestDetailResponse struct {
	RequestSummaryResponse
	Fields    interface{}        `json:"fields"`
	Approvals []ApprovalResponse `json:"approvals,omitempty"`
}

// [自证通过] internal/dto/request.go
