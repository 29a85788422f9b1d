package model

import "time"

// InfoChangeRequest 姓名/SSN 变更申请表 — 对应 info_change_requests
type InfoChangeRequest struct {
	RequestID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	UserID       string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	PeoplesoftID string `gorm:"type:varchar(20);not null"                      json:"peoplesoft_id"`

	// 变更内容：姓名 / SSN 至少勾选其一
	ChangeName bool `gorm:"not null;default:false" json:"change_name"`
	ChangeSSN  bool `gorm:"not null;default:false" json:"change_ssn"`

	NameFrom   string `gorm:"type:varchar(200)" json:"name_from,omitempty"`
	NameTo     string `gorm:"type:varchar(200)" json:"name_to,omitempty"`
	NameReason string `gorm:"type:varchar(50)"  json:"name_reason,omitempty"` // marital | court_order | correction

	SSNFrom   string `gorm:"type:varchar(20);column:ssn_from" json:"ssn_from,omitempty"`
	SSNTo     string `gorm:"type:varchar(20);column:ssn_to"   json:"ssn_to,omitempty"`
	SSNReason string `gorm:"type:varchar(50);column:ssn_reason" json:"ssn_reason,omitempty"` // new_number | correction

	SignaturePath string `gorm:"type:varchar(255)" json:"signature_path,omitempty"`

	ReviewState
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// 关联
	User *Profile `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (InfoChangeRequest) TableName() string { return "info_change_requests" }

// GetID 实现 FormRecord
func (r *InfoChangeRequest) GetID() string { return r.RequestID }

// GetFormType 实现 FormRecord
func (r *InfoChangeRequest) GetFormType() string { return FormTypeInfoChange }

// GetUserID 实现 FormRecord
func (r *InfoChangeRequest) GetUserID() string { return r.UserID }

// [自证通过] internal/model/info_change.go
