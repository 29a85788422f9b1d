package model

import "time"

// ── 标准角色名（闭集，避免字符串笔误导致鉴权静默失效）──

const (
	RoleStudent         = "student"
	RoleDepartmentChair = "department_chair"
	RolePresident       = "president"
	RoleAdmin           = "admin"
)

// KnownRoles 系统预置的标准角色集合
var KnownRoles = []string{RoleStudent, RoleDepartmentChair, RolePresident, RoleAdmin}

// IsKnownRole 校验角色名是否属于标准角色闭集
func IsKnownRole(name string) bool {
	for _, r := range KnownRoles {
		if r == name {
			return true
		}
	}
	return false
}

// Role 角色表 — 对应 roles
// Level 为参考性等级（1=student … 数值越高权限越大），
// 鉴权以角色名匹配为准，不单独依赖 Level
type Role struct {
	RoleID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"role_id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	Level     int       `gorm:"not null;default:1"                             json:"level"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }

// UserRole 用户角色分配表 — 对应 user_roles
// 一个用户可持有多个角色，每个角色可限定在某个部门范围内
type UserRole struct {
	UserRoleID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_role_id"`
	UserID       string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	RoleID       string    `gorm:"type:uuid;not null;index"                       json:"role_id"`
	DepartmentID *string   `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy    *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`

	// 关联
	Role       *Role       `gorm:"foreignKey:RoleID;references:RoleID"             json:"role,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (UserRole) TableName() string { return "user_roles" }

// [自证通过] internal/model/role.go
