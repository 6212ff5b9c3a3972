// controllers/project.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"engagement-api/config"
	"engagement-api/models"
	"engagement-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ===================== PROJECT CAPTURE =====================

type FundingInput struct {
	Funder    string  `json:"funder" binding:"required"`
	Amount    float64 `json:"amount"`
	Years     float64 `json:"years"`
	Renewable *string `json:"renewable"`
}

type OutputInput struct {
	OutputTypeCode int     `json:"output_type_code" binding:"required"`
	OutputTitle    *string `json:"output_title"`
	PubTitle       *string `json:"pub_title"`
	URL            *string `json:"url"`
	DOI            *string `json:"doi"`
}

type CourseInput struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type CollaboratorInput struct {
	Name       string `json:"name" binding:"required"`
	University string `json:"university" binding:"required"`
}

// ProjectRequest is the full questionnaire payload. The Action field carries
// the submitter's intent: draft, final or delete.
type ProjectRequest struct {
	Action string `json:"action"`

	Name           string     `json:"name" binding:"required"`
	OrgLevel1ID    *int       `json:"org_level_1_id"`
	OrgLevel2ID    *int       `json:"org_level_2_id"`
	OrgLevel3ID    *int       `json:"org_level_3_id"`
	IsLeader       *string    `json:"is_leader"`
	IsFlagship     *string    `json:"is_flagship"`
	ProjectStatus  *int       `json:"project_status"`
	StartDate      *time.Time `json:"start_date" binding:"required"`
	EndDate        *time.Time `json:"end_date"`
	Description    *string    `json:"description"`
	FocusAreaText  *string    `json:"focus_area_text"`
	Classification *int       `json:"classification"`
	Outcomes       *string    `json:"outcomes"`
	Beneficiaries  *string    `json:"beneficiaries"`

	Initiation             *int    `json:"initiation"`
	Authors                *int    `json:"authors"`
	AmendmentsPermitted    *string `json:"amendments_permitted"`
	PublicDomain           *string `json:"public_domain"`
	PublicDomainURL        *string `json:"public_domain_url"`
	AdvGroup               *string `json:"adv_group"`
	AdvGroupFreq           *int    `json:"adv_group_freq"`
	TeamMembersText        *string `json:"team_members_text"`
	NewInitiative          *string `json:"new_initiative"`
	NewInitiativeText      *string `json:"new_initiative_text"`
	NewInitiativeParty     *int    `json:"new_initiative_party"`
	NewInitiativePartyText *string `json:"new_initiative_party_text"`

	Research              *int    `json:"research"`
	ResearchText          *string `json:"research_text"`
	PhdResearch           *string `json:"phd_research"`
	CurriculumChanges     *string `json:"curriculum_changes"`
	CurriculumChangesText *string `json:"curriculum_changes_text"`
	NewCourses            *string `json:"new_courses"`
	StudentsInvolved      *string `json:"students_involved"`
	StudentNatureText     *string `json:"student_nature_text"`
	CourseRequirement     *string `json:"course_requirement"`
	ExternalCollaboration *string `json:"external_collaboration"`

	Funding       []FundingInput      `json:"funding"`
	PhdStudents   []string            `json:"phd_students"`
	Outputs       []OutputInput       `json:"outputs"`
	NewCourseRows []CourseInput       `json:"new_courses_details"`
	CourseReqRows []CourseInput       `json:"course_requirement_details"`
	Collaborators []CollaboratorInput `json:"collaborators"`

	FocusAreaCodes        []int `json:"focus_area_codes"`
	StrategicObjectiveIDs []int `json:"strategic_objective_ids"`
	AdvGroupRepCodes      []int `json:"adv_group_rep_codes"`
	TeamMemberCodes       []int `json:"team_member_codes"`
	StudentTypeCodes      []int `json:"student_type_codes"`
	StudentNatureCodes    []int `json:"student_nature_codes"`
}

// projectSelections holds the resolved reference rows for a request.
type projectSelections struct {
	FocusAreas    []models.FocusArea
	Objectives    []models.StrategicObjective
	AdvGroupReps  []models.AdvisoryGroupRep
	TeamMembers   []models.ResearchTeamMember
	StudentTypes  []models.StudentType
	StudentNature []models.StudentParticipationNature
}

// applyRequest copies the scalar questionnaire answers onto the record.
func applyRequest(p *models.ProjectDetail, req *ProjectRequest) {
	p.Name = req.Name
	p.OrgLevel1ID = req.OrgLevel1ID
	p.OrgLevel2ID = req.OrgLevel2ID
	p.OrgLevel3ID = req.OrgLevel3ID
	p.IsLeader = req.IsLeader
	p.IsFlagship = req.IsFlagship
	p.ProjectStatus = req.ProjectStatus
	p.StartDate = req.StartDate
	p.EndDate = req.EndDate
	p.Description = req.Description
	p.FocusAreaText = req.FocusAreaText
	p.Classification = req.Classification
	p.Outcomes = req.Outcomes
	p.Beneficiaries = req.Beneficiaries
	p.Initiation = req.Initiation
	p.Authors = req.Authors
	p.AmendmentsPermitted = req.AmendmentsPermitted
	p.PublicDomain = req.PublicDomain
	p.PublicDomainURL = req.PublicDomainURL
	p.AdvGroup = req.AdvGroup
	p.AdvGroupFreq = req.AdvGroupFreq
	p.TeamMembersText = req.TeamMembersText
	p.NewInitiative = req.NewInitiative
	p.NewInitiativeText = req.NewInitiativeText
	p.NewInitiativeParty = req.NewInitiativeParty
	p.NewInitiativePartyText = req.NewInitiativePartyText
	p.Research = req.Research
	p.ResearchText = req.ResearchText
	p.PhdResearch = req.PhdResearch
	p.CurriculumChanges = req.CurriculumChanges
	p.CurriculumChangesText = req.CurriculumChangesText
	p.NewCourses = req.NewCourses
	p.StudentsInvolved = req.StudentsInvolved
	p.StudentNatureText = req.StudentNatureText
	p.CourseRequirement = req.CourseRequirement
	p.ExternalCollaboration = req.ExternalCollaboration
}

// resolveSelections loads the reference rows for the request's code lists.
// Strategic objectives are restricted to the submitter's institute.
func resolveSelections(req *ProjectRequest, instituteID int) (*projectSelections, error) {
	sel := &projectSelections{}

	if len(req.FocusAreaCodes) > 0 {
		if err := config.DB.Where("code IN ?", req.FocusAreaCodes).Find(&sel.FocusAreas).Error; err != nil {
			return nil, err
		}
	}
	if len(req.StrategicObjectiveIDs) > 0 {
		if err := config.DB.Where("objective_id IN ? AND institute_id = ?",
			req.StrategicObjectiveIDs, instituteID).Find(&sel.Objectives).Error; err != nil {
			return nil, err
		}
	}
	if len(req.AdvGroupRepCodes) > 0 {
		if err := config.DB.Where("code IN ?", req.AdvGroupRepCodes).Find(&sel.AdvGroupReps).Error; err != nil {
			return nil, err
		}
	}
	if len(req.TeamMemberCodes) > 0 {
		if err := config.DB.Where("code IN ?", req.TeamMemberCodes).Find(&sel.TeamMembers).Error; err != nil {
			return nil, err
		}
	}
	if len(req.StudentTypeCodes) > 0 {
		if err := config.DB.Where("code IN ?", req.StudentTypeCodes).Find(&sel.StudentTypes).Error; err != nil {
			return nil, err
		}
	}
	if len(req.StudentNatureCodes) > 0 {
		if err := config.DB.Where("code IN ?", req.StudentNatureCodes).Find(&sel.StudentNature).Error; err != nil {
			return nil, err
		}
	}

	return sel, nil
}

// replaceChildren rewrites the owned child rows and reference selections of a
// saved record. For a forked record the old row keeps its own children; this
// only ever writes against the identity that was just persisted.
func replaceChildren(tx *gorm.DB, projectID int, req *ProjectRequest, sel *projectSelections) error {
	owned := []interface{}{
		&models.ProjectFunding{}, &models.PHDStudent{}, &models.ProjectOutput{},
		&models.NewCourseDetail{}, &models.CourseReqDetail{}, &models.Collaborator{},
	}
	for _, model := range owned {
		if err := tx.Where("project_id = ?", projectID).Delete(model).Error; err != nil {
			return err
		}
	}

	for _, f := range req.Funding {
		row := models.ProjectFunding{
			ProjectID: projectID,
			Funder:    f.Funder,
			Amount:    f.Amount,
			Years:     f.Years,
			Renewable: f.Renewable,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, name := range req.PhdStudents {
		row := models.PHDStudent{ProjectID: projectID, Name: name}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, o := range req.Outputs {
		var outputType models.ProjectOutputType
		if err := tx.Where("code = ?", o.OutputTypeCode).First(&outputType).Error; err != nil {
			return err
		}
		row := models.ProjectOutput{
			ProjectID:    projectID,
			OutputTypeID: outputType.OutputTypeID,
			OutputTitle:  o.OutputTitle,
			PubTitle:     o.PubTitle,
			URL:          o.URL,
			DOI:          o.DOI,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, course := range req.NewCourseRows {
		row := models.NewCourseDetail{ProjectID: projectID, Code: course.Code, Name: course.Name}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, course := range req.CourseReqRows {
		row := models.CourseReqDetail{ProjectID: projectID, Code: course.Code, Name: course.Name}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	for _, collab := range req.Collaborators {
		row := models.Collaborator{ProjectID: projectID, Name: collab.Name, University: collab.University}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	anchor := models.ProjectDetail{ProjectID: projectID}
	if err := tx.Model(&anchor).Association("FocusAreas").Replace(&sel.FocusAreas); err != nil {
		return err
	}
	if err := tx.Model(&anchor).Association("StrategicObjectives").Replace(&sel.Objectives); err != nil {
		return err
	}
	if err := tx.Model(&anchor).Association("AdvGroupReps").Replace(&sel.AdvGroupReps); err != nil {
		return err
	}
	if err := tx.Model(&anchor).Association("TeamMembers").Replace(&sel.TeamMembers); err != nil {
		return err
	}
	if err := tx.Model(&anchor).Association("StudentTypes").Replace(&sel.StudentTypes); err != nil {
		return err
	}
	if err := tx.Model(&anchor).Association("StudentNature").Replace(&sel.StudentNature); err != nil {
		return err
	}
	return nil
}

// projectView is a list/detail row with the computed score and duration.
type projectView struct {
	models.ProjectDetail
	Score    services.ScoreBreakdown `json:"score"`
	Duration int                     `json:"duration"`
}

func viewOf(p models.ProjectDetail) projectView {
	children := services.ChildrenOf(&p)
	view := projectView{
		ProjectDetail: p,
		Score:         services.CalculateScore(&p, children),
	}
	if p.StartDate != nil {
		view.Duration = services.DurationBucket(*p.StartDate, p.EndDate, p.CreatedAt)
	}
	return view
}

// GetProjects returns the submissions visible to the caller, scored.
func GetProjects(c *gin.Context) {
	roleID, _ := c.Get("roleID")
	instituteID, _ := c.Get("instituteID")
	userID, _ := c.Get("userID")

	filter := services.ProjectListFilter{}
	switch roleID.(int) {
	case models.RoleSuperuser:
		// Everything, drafts included.
	case models.RoleInstituteAdmin:
		filter.InstituteID = instituteID.(int)
		filter.HideDrafts = true
	default:
		leader, err := leaderForUser(userID.(int))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "No project leader profile"})
			return
		}
		filter.LeaderID = leader.ProjectLeaderID
	}

	if periodID, err := strconv.Atoi(c.Query("period_id")); err == nil {
		filter.PeriodID = periodID
	}
	if c.Query("flagged") == "true" {
		filter.FlaggedOnly = true
	}

	projects, err := services.NewProjectQueryService(nil).List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, viewOf(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": views,
		"total":    len(views),
	})
}

// GetProject returns one submission with its score breakdown.
func GetProject(c *gin.Context) {
	project, ok := loadVisibleProject(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": viewOf(*project),
	})
}

// GetProjectScore returns just the score breakdown and duration band.
func GetProjectScore(c *gin.Context) {
	project, ok := loadVisibleProject(c)
	if !ok {
		return
	}

	view := viewOf(*project)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"score":    view.Score,
		"duration": view.Duration,
	})
}

// CreateProject stores a new submission under the active reporting period.
func CreateProject(c *gin.Context) {
	userID, _ := c.Get("userID")

	leader, err := leaderForUser(userID.(int))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No project leader profile"})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := services.ParseSaveIntent(req.Action)
	if err != nil || intent == services.IntentDelete {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid save action"})
		return
	}

	sel, err := resolveSelections(&req, leader.InstituteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve selections"})
		return
	}

	var project models.ProjectDetail
	applyRequest(&project, &req)
	project.TeamMembers = sel.TeamMembers

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := services.NewLifecycleService(tx).Create(&project, leader, intent); err != nil {
			return err
		}
		return replaceChildren(tx, project.ProjectID, &req, sel)
	})
	if errors.Is(err, services.ErrNoActivePeriod) {
		c.JSON(http.StatusConflict, gin.H{"error": "No active reporting period for your institute"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"project_id": project.ProjectID,
		"status":     project.RecordStatus,
	})
}

// UpdateProject applies a draft/final/delete action to an existing
// submission. Re-finalizing after a period rollover forks a copy into the new
// period and leaves the old snapshot untouched.
func UpdateProject(c *gin.Context) {
	userID, _ := c.Get("userID")

	leader, err := leaderForUser(userID.(int))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No project leader profile"})
		return
	}

	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	project, err := services.NewProjectQueryService(nil).Get(projectID)
	if err != nil || project.IsDeleted || project.LeaderID != leader.ProjectLeaderID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := services.ParseSaveIntent(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid save action"})
		return
	}

	sel, err := resolveSelections(&req, leader.InstituteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve selections"})
		return
	}

	if intent != services.IntentDelete {
		applyRequest(project, &req)
		project.TeamMembers = sel.TeamMembers
	}

	var outcome *services.SaveOutcome
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		outcome, txErr = services.NewLifecycleService(tx).Save(*project, intent)
		if txErr != nil {
			return txErr
		}
		if intent == services.IntentDelete {
			return nil
		}
		return replaceChildren(tx, outcome.Record.ProjectID, &req, sel)
	})
	if errors.Is(err, services.ErrNoActivePeriod) {
		c.JSON(http.StatusConflict, gin.H{"error": "No active reporting period for your institute"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"project_id": outcome.Record.ProjectID,
		"status":     outcome.Record.RecordStatus,
		"forked":     outcome.Forked,
	})
}

// RejectProject records a reviewer rejection of a finalized submission.
func RejectProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req struct {
		Detail string `json:"detail" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = services.NewLifecycleService(nil).Reject(projectID, req.Detail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No finalized project with that ID"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// loadVisibleProject fetches the requested project and enforces per-role
// visibility: leaders see their own records, institute admins their
// institute's non-draft records, superusers everything.
func loadVisibleProject(c *gin.Context) (*models.ProjectDetail, bool) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return nil, false
	}

	project, err := services.NewProjectQueryService(nil).Get(projectID)
	if err != nil || project.IsDeleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return nil, false
	}

	roleID, _ := c.Get("roleID")
	instituteID, _ := c.Get("instituteID")
	userID, _ := c.Get("userID")

	switch roleID.(int) {
	case models.RoleSuperuser:
	case models.RoleInstituteAdmin:
		if project.InstituteID != instituteID.(int) ||
			project.RecordStatus == models.RecordStatusDraft {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return nil, false
		}
	default:
		leader, err := leaderForUser(userID.(int))
		if err != nil || project.LeaderID != leader.ProjectLeaderID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return nil, false
		}
	}

	return project, true
}

func leaderForUser(userID int) (*models.ProjectLeader, error) {
	var leader models.ProjectLeader
	if err := config.DB.Where("user_id = ?", userID).First(&leader).Error; err != nil {
		return nil, err
	}
	return &leader, nil
}
