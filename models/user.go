package models

import "time"

// Role IDs used by middleware.RequireRole.
const (
	RoleSuperuser      = 1
	RoleInstituteAdmin = 2
	RoleProjectLeader  = 3
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	FirstName string     `gorm:"column:first_name" json:"first_name"`
	LastName  string     `gorm:"column:last_name" json:"last_name"`
	Password  string     `gorm:"column:password" json:"-"`
	RoleID    int        `gorm:"column:role_id" json:"role_id"`
	IsActive  bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	InstituteAdmin *InstituteAdmin `gorm:"foreignKey:UserID" json:"institute_admin,omitempty"`
	ProjectLeader  *ProjectLeader  `gorm:"foreignKey:UserID" json:"project_leader,omitempty"`
}

// InstituteAdmin links a user to the institute it administers.
type InstituteAdmin struct {
	InstituteAdminID int `gorm:"primaryKey;column:institute_admin_id" json:"institute_admin_id"`
	UserID           int `gorm:"column:user_id" json:"user_id"`
	InstituteID      int `gorm:"column:institute_id" json:"institute_id"`

	Institute *Institute `gorm:"foreignKey:InstituteID" json:"institute,omitempty"`
}

// ProjectLeader links a user to the institute and org unit it submits for.
type ProjectLeader struct {
	ProjectLeaderID int     `gorm:"primaryKey;column:project_leader_id" json:"project_leader_id"`
	UserID          int     `gorm:"column:user_id" json:"user_id"`
	InstituteID     int     `gorm:"column:institute_id" json:"institute_id"`
	OrgLevel1ID     int     `gorm:"column:org_level_1_id" json:"org_level_1_id"`
	OrgLevel2ID     *int    `gorm:"column:org_level_2_id" json:"org_level_2_id,omitempty"`
	OrgLevel3ID     *int    `gorm:"column:org_level_3_id" json:"org_level_3_id,omitempty"`
	StaffNo         *string `gorm:"column:staff_no" json:"staff_no,omitempty"`
	Position        *string `gorm:"column:position" json:"position,omitempty"`

	Institute *Institute `gorm:"foreignKey:InstituteID" json:"institute,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (InstituteAdmin) TableName() string {
	return "institute_admins"
}

func (ProjectLeader) TableName() string {
	return "project_leaders"
}

// FullName returns first plus last name with a space in between.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// InstituteID returns the institute the user belongs to, or 0 for a global
// superuser with no institute assignment.
func (u *User) InstituteID() int {
	if u.InstituteAdmin != nil {
		return u.InstituteAdmin.InstituteID
	}
	if u.ProjectLeader != nil {
		return u.ProjectLeader.InstituteID
	}
	return 0
}
