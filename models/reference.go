package models

// Reference code tables backing the questionnaire's multi-select questions.
// Rows are seeded by cmd/seed-reference and shared across institutes.

// OtherAcademicsCode is the ResearchTeamMember code for "Other academics".
// A project whose team consists solely of this answer is flagged for review.
const OtherAcademicsCode = 7

// FocusArea represents the focus_areas table
type FocusArea struct {
	FocusAreaID int    `gorm:"primaryKey;column:focus_area_id" json:"focus_area_id"`
	Code        int    `gorm:"column:code;unique" json:"code"`
	Choice      string `gorm:"column:choice" json:"choice"`
}

// AdvisoryGroupRep represents the advisory_group_reps table
type AdvisoryGroupRep struct {
	AdvisoryGroupRepID int    `gorm:"primaryKey;column:advisory_group_rep_id" json:"advisory_group_rep_id"`
	Code               int    `gorm:"column:code;unique" json:"code"`
	Choice             string `gorm:"column:choice" json:"choice"`
}

// ResearchTeamMember represents the research_team_members table
type ResearchTeamMember struct {
	ResearchTeamMemberID int    `gorm:"primaryKey;column:research_team_member_id" json:"research_team_member_id"`
	Code                 int    `gorm:"column:code;unique" json:"code"`
	Choice               string `gorm:"column:choice" json:"choice"`
}

// StudentType represents the student_types table
type StudentType struct {
	StudentTypeID int    `gorm:"primaryKey;column:student_type_id" json:"student_type_id"`
	Code          int    `gorm:"column:code;unique" json:"code"`
	Choice        string `gorm:"column:choice" json:"choice"`
}

// StudentParticipationNature represents the student_participation_natures table
type StudentParticipationNature struct {
	StudentNatureID int    `gorm:"primaryKey;column:student_nature_id" json:"student_nature_id"`
	Code            int    `gorm:"column:code;unique" json:"code"`
	Choice          string `gorm:"column:choice" json:"choice"`
}

// ProjectOutputType represents the project_output_types table
type ProjectOutputType struct {
	OutputTypeID int    `gorm:"primaryKey;column:output_type_id" json:"output_type_id"`
	Code         int    `gorm:"column:code;unique" json:"code"`
	Choice       string `gorm:"column:choice" json:"choice"`
}

// TableName overrides
func (FocusArea) TableName() string {
	return "focus_areas"
}

func (AdvisoryGroupRep) TableName() string {
	return "advisory_group_reps"
}

func (ResearchTeamMember) TableName() string {
	return "research_team_members"
}

func (StudentType) TableName() string {
	return "student_types"
}

func (StudentParticipationNature) TableName() string {
	return "student_participation_natures"
}

func (ProjectOutputType) TableName() string {
	return "project_output_types"
}
