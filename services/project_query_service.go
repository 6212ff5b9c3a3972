package services

import (
	"engagement-api/config"
	"engagement-api/models"

	"gorm.io/gorm"
)

// ProjectQueryService loads submissions together with everything the score
// calculation needs, so scoring itself never touches the database.
type ProjectQueryService struct {
	db *gorm.DB
}

func NewProjectQueryService(db *gorm.DB) *ProjectQueryService {
	if db == nil {
		db = config.DB
	}
	return &ProjectQueryService{db: db}
}

// preloaded attaches every child collection and reference selection.
func (s *ProjectQueryService) preloaded() *gorm.DB {
	return s.db.
		Preload("Funding").
		Preload("PhdStudents").
		Preload("Outputs").
		Preload("NewCourseRows").
		Preload("CourseReqRows").
		Preload("Collaborators").
		Preload("StrategicObjectives").
		Preload("AdvGroupReps").
		Preload("TeamMembers").
		Preload("StudentTypes").
		Preload("StudentNature").
		Preload("Period")
}

// Get fetches one submission with all children loaded.
func (s *ProjectQueryService) Get(projectID int) (*models.ProjectDetail, error) {
	var project models.ProjectDetail
	if err := s.preloaded().
		First(&project, "project_id = ?", projectID).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectListFilter narrows List results. Zero values mean "no filter".
type ProjectListFilter struct {
	InstituteID int
	PeriodID    int
	LeaderID    int
	HideDrafts  bool // reviewer roles never see drafts
	FlaggedOnly bool
}

// List fetches the non-deleted submissions matching the filter, children
// included, newest first.
func (s *ProjectQueryService) List(filter ProjectListFilter) ([]models.ProjectDetail, error) {
	q := s.preloaded().Where("is_deleted = ?", false)

	if filter.InstituteID != 0 {
		q = q.Where("institute_id = ?", filter.InstituteID)
	}
	if filter.PeriodID != 0 {
		q = q.Where("period_id = ?", filter.PeriodID)
	}
	if filter.LeaderID != 0 {
		q = q.Where("leader_id = ?", filter.LeaderID)
	}
	if filter.HideDrafts {
		q = q.Where("record_status <> ?", models.RecordStatusDraft)
	}
	if filter.FlaggedOnly {
		q = q.Where("is_flagged = ?", true)
	}

	var projects []models.ProjectDetail
	if err := q.Order("created_at DESC, project_id DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ChildrenOf repackages a loaded project's collections for the calculator.
func ChildrenOf(p *models.ProjectDetail) ProjectChildren {
	return ProjectChildren{
		Funding:             p.Funding,
		PhdStudents:         p.PhdStudents,
		Outputs:             p.Outputs,
		NewCourses:          p.NewCourseRows,
		CourseReqs:          p.CourseReqRows,
		Collaborators:       p.Collaborators,
		StrategicObjectives: p.StrategicObjectives,
		AdvGroupReps:        p.AdvGroupReps,
		TeamMembers:         p.TeamMembers,
		StudentNature:       p.StudentNature,
	}
}
