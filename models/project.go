package models

import "time"

// Record status of an engagement project submission.
const (
	RecordStatusDraft    = 1
	RecordStatusFinal    = 2
	RecordStatusRejected = 3
)

// Yes/No questionnaire answers are stored as single characters, matching the
// exported questionnaire format.
const (
	AnswerYes = "Y"
	AnswerNo  = "N"
)

// ProjectDetail represents the project_details table: one engagement project
// questionnaire submission within a reporting period.
type ProjectDetail struct {
	ProjectID   int    `gorm:"primaryKey;column:project_id" json:"project_id"`
	Name        string `gorm:"column:name" json:"name"`
	LeaderID    int    `gorm:"column:leader_id" json:"leader_id"`
	InstituteID int    `gorm:"column:institute_id" json:"institute_id"`
	OrgLevel1ID *int   `gorm:"column:org_level_1_id" json:"org_level_1_id,omitempty"`
	OrgLevel2ID *int   `gorm:"column:org_level_2_id" json:"org_level_2_id,omitempty"`
	OrgLevel3ID *int   `gorm:"column:org_level_3_id" json:"org_level_3_id,omitempty"`

	IsLeader      *string    `gorm:"column:is_leader" json:"is_leader,omitempty"`
	IsFlagship    *string    `gorm:"column:is_flagship" json:"is_flagship,omitempty"`
	ProjectStatus *int       `gorm:"column:project_status" json:"project_status,omitempty"`
	StartDate     *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate       *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	Description   *string    `gorm:"column:description" json:"description,omitempty"`
	FocusAreaText *string    `gorm:"column:focus_area_text" json:"focus_area_text,omitempty"`
	Classification *int      `gorm:"column:classification" json:"classification,omitempty"`
	Outcomes      *string    `gorm:"column:outcomes" json:"outcomes,omitempty"`
	Beneficiaries *string    `gorm:"column:beneficiaries" json:"beneficiaries,omitempty"`

	Initiation           *int    `gorm:"column:initiation" json:"initiation,omitempty"`
	Authors              *int    `gorm:"column:authors" json:"authors,omitempty"`
	AmendmentsPermitted  *string `gorm:"column:amendments_permitted" json:"amendments_permitted,omitempty"`
	PublicDomain         *string `gorm:"column:public_domain" json:"public_domain,omitempty"`
	PublicDomainURL      *string `gorm:"column:public_domain_url" json:"public_domain_url,omitempty"`
	AdvGroup             *string `gorm:"column:adv_group" json:"adv_group,omitempty"`
	AdvGroupFreq         *int    `gorm:"column:adv_group_freq" json:"adv_group_freq,omitempty"`
	TeamMembersText      *string `gorm:"column:team_members_text" json:"team_members_text,omitempty"`
	NewInitiative        *string `gorm:"column:new_initiative" json:"new_initiative,omitempty"`
	NewInitiativeText    *string `gorm:"column:new_initiative_text" json:"new_initiative_text,omitempty"`
	NewInitiativeParty   *int    `gorm:"column:new_initiative_party" json:"new_initiative_party,omitempty"`
	NewInitiativePartyText *string `gorm:"column:new_initiative_party_text" json:"new_initiative_party_text,omitempty"`

	Research              *int    `gorm:"column:research" json:"research,omitempty"`
	ResearchText          *string `gorm:"column:research_text" json:"research_text,omitempty"`
	PhdResearch           *string `gorm:"column:phd_research" json:"phd_research,omitempty"`
	CurriculumChanges     *string `gorm:"column:curriculum_changes" json:"curriculum_changes,omitempty"`
	CurriculumChangesText *string `gorm:"column:curriculum_changes_text" json:"curriculum_changes_text,omitempty"`
	NewCourses            *string `gorm:"column:new_courses" json:"new_courses,omitempty"`
	StudentsInvolved      *string `gorm:"column:students_involved" json:"students_involved,omitempty"`
	StudentNatureText     *string `gorm:"column:student_nature_text" json:"student_nature_text,omitempty"`
	CourseRequirement     *string `gorm:"column:course_requirement" json:"course_requirement,omitempty"`
	ExternalCollaboration *string `gorm:"column:external_collaboration" json:"external_collaboration,omitempty"`

	RecordStatus   int       `gorm:"column:record_status" json:"record_status"`
	PeriodID       int       `gorm:"column:period_id" json:"period_id"`
	IsRejected     bool      `gorm:"column:is_rejected" json:"is_rejected"`
	RejectedDetail *string   `gorm:"column:rejected_detail" json:"rejected_detail,omitempty"`
	IsFlagged      bool      `gorm:"column:is_flagged" json:"is_flagged"`
	IsDeleted      bool      `gorm:"column:is_deleted" json:"is_deleted"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`

	// Owned child collections (cascade-deleted with the project)
	Funding       []ProjectFunding  `gorm:"foreignKey:ProjectID" json:"funding,omitempty"`
	PhdStudents   []PHDStudent      `gorm:"foreignKey:ProjectID" json:"phd_students,omitempty"`
	Outputs       []ProjectOutput   `gorm:"foreignKey:ProjectID" json:"outputs,omitempty"`
	NewCourseRows []NewCourseDetail `gorm:"foreignKey:ProjectID" json:"new_course_details,omitempty"`
	CourseReqRows []CourseReqDetail `gorm:"foreignKey:ProjectID" json:"course_req_details,omitempty"`
	Collaborators []Collaborator    `gorm:"foreignKey:ProjectID" json:"collaborators,omitempty"`

	// Selected shared reference data
	FocusAreas          []FocusArea                  `gorm:"many2many:project_focus_areas;foreignKey:ProjectID;references:FocusAreaID" json:"focus_areas,omitempty"`
	StrategicObjectives []StrategicObjective         `gorm:"many2many:project_strategic_objectives;foreignKey:ProjectID;references:ObjectiveID" json:"strategic_objectives,omitempty"`
	AdvGroupReps        []AdvisoryGroupRep           `gorm:"many2many:project_advisory_group_reps;foreignKey:ProjectID;references:AdvisoryGroupRepID" json:"adv_group_reps,omitempty"`
	TeamMembers         []ResearchTeamMember         `gorm:"many2many:project_team_members;foreignKey:ProjectID;references:ResearchTeamMemberID" json:"team_members,omitempty"`
	StudentTypes        []StudentType                `gorm:"many2many:project_student_types;foreignKey:ProjectID;references:StudentTypeID" json:"student_types,omitempty"`
	StudentNature       []StudentParticipationNature `gorm:"many2many:project_student_natures;foreignKey:ProjectID;references:StudentNatureID" json:"student_nature,omitempty"`

	Period *ReportingPeriod `gorm:"foreignKey:PeriodID" json:"reporting_period,omitempty"`
	Leader *ProjectLeader   `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
}

// ProjectFunding represents the project_funding table
type ProjectFunding struct {
	FundingID int     `gorm:"primaryKey;column:funding_id" json:"funding_id"`
	ProjectID int     `gorm:"column:project_id" json:"project_id"`
	Funder    string  `gorm:"column:funder" json:"funder"`
	Amount    float64 `gorm:"column:amount" json:"amount"`
	Years     float64 `gorm:"column:years" json:"years"`
	Renewable *string `gorm:"column:renewable" json:"renewable,omitempty"`
}

// PHDStudent represents the phd_students table
type PHDStudent struct {
	StudentID int    `gorm:"primaryKey;column:student_id" json:"student_id"`
	ProjectID int    `gorm:"column:project_id" json:"project_id"`
	Name      string `gorm:"column:name" json:"name"`
}

// ProjectOutput represents the project_outputs table. An output counts as
// evidence-backed when it carries a URL, DOI or uploaded attachment.
type ProjectOutput struct {
	OutputID       int     `gorm:"primaryKey;column:output_id" json:"output_id"`
	ProjectID      int     `gorm:"column:project_id" json:"project_id"`
	OutputTypeID   int     `gorm:"column:output_type_id" json:"output_type_id"`
	OutputTitle    *string `gorm:"column:output_title" json:"output_title,omitempty"`
	PubTitle       *string `gorm:"column:pub_title" json:"pub_title,omitempty"`
	URL            *string `gorm:"column:url" json:"url,omitempty"`
	DOI            *string `gorm:"column:doi" json:"doi,omitempty"`
	AttachmentPath *string `gorm:"column:attachment_path" json:"attachment_path,omitempty"`

	Type *ProjectOutputType `gorm:"foreignKey:OutputTypeID" json:"type,omitempty"`
}

// HasEvidence reports whether the output carries at least one of a URL, DOI
// or attachment.
func (o *ProjectOutput) HasEvidence() bool {
	return strPresent(o.URL) || strPresent(o.DOI) || strPresent(o.AttachmentPath)
}

func strPresent(s *string) bool {
	return s != nil && *s != ""
}

// NewCourseDetail represents the new_course_details table
type NewCourseDetail struct {
	NewCourseID int    `gorm:"primaryKey;column:new_course_id" json:"new_course_id"`
	ProjectID   int    `gorm:"column:project_id" json:"project_id"`
	Code        string `gorm:"column:code" json:"code"`
	Name        string `gorm:"column:name" json:"name"`
}

// CourseReqDetail represents the course_req_details table
type CourseReqDetail struct {
	CourseReqID int    `gorm:"primaryKey;column:course_req_id" json:"course_req_id"`
	ProjectID   int    `gorm:"column:project_id" json:"project_id"`
	Code        string `gorm:"column:code" json:"code"`
	Name        string `gorm:"column:name" json:"name"`
}

// Collaborator represents the collaborators table
type Collaborator struct {
	CollaboratorID int    `gorm:"primaryKey;column:collaborator_id" json:"collaborator_id"`
	ProjectID      int    `gorm:"column:project_id" json:"project_id"`
	Name           string `gorm:"column:name" json:"name"`
	University     string `gorm:"column:university" json:"university"`
}

// TableName overrides
func (ProjectDetail) TableName() string {
	return "project_details"
}

func (ProjectFunding) TableName() string {
	return "project_funding"
}

func (PHDStudent) TableName() string {
	return "phd_students"
}

func (ProjectOutput) TableName() string {
	return "project_outputs"
}

func (NewCourseDetail) TableName() string {
	return "new_course_details"
}

func (CourseReqDetail) TableName() string {
	return "course_req_details"
}

func (Collaborator) TableName() string {
	return "collaborators"
}

// AnswerIs reports whether a nullable Y/N answer matches want. A missing
// answer never matches.
func AnswerIs(answer *string, want string) bool {
	return answer != nil && *answer == want
}
