package controllers

import (
	"net/http"
	"strconv"

	"engagement-api/config"
	"engagement-api/models"

	"github.com/gin-gonic/gin"
)

// GetInstitutes returns all institutes with their org level names.
func GetInstitutes(c *gin.Context) {
	var institutes []models.Institute
	if err := config.DB.Order("name").Find(&institutes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch institutes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"institutes": institutes,
		"total":      len(institutes),
	})
}

// GetInstitute returns one institute with its strategic objectives and
// reporting periods.
func GetInstitute(c *gin.Context) {
	instituteID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid institute ID"})
		return
	}

	var institute models.Institute
	if err := config.DB.
		Preload("StrategicObjectives").
		Preload("ReportingPeriods").
		First(&institute, "institute_id = ?", instituteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Institute not found"})
		return
	}

	// The correct/incorrect flag on objective statements is only shown to
	// admin roles; project leaders answer blind.
	roleID, _ := c.Get("roleID")
	if roleID.(int) == models.RoleProjectLeader {
		for i := range institute.StrategicObjectives {
			institute.StrategicObjectives[i].IsTrue = false
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"institute": institute,
	})
}

// GetOrgLevels returns the institute's organisational units for form choices.
func GetOrgLevels(c *gin.Context) {
	instituteID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid institute ID"})
		return
	}

	var institute models.Institute
	if err := config.DB.First(&institute, "institute_id = ?", instituteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Institute not found"})
		return
	}

	var level1 []models.OrgLevel1
	var level2 []models.OrgLevel2
	var level3 []models.OrgLevel3
	if err := config.DB.Where("institute_id = ?", instituteID).Order("name").Find(&level1).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch org levels"})
		return
	}
	if err := config.DB.Where("institute_id = ?", instituteID).Order("name").Find(&level2).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch org levels"})
		return
	}
	if err := config.DB.Where("institute_id = ?", instituteID).Order("name").Find(&level3).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch org levels"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"levels":      institute.OrgLevels(),
		"org_level_1": level1,
		"org_level_2": level2,
		"org_level_3": level3,
	})
}

// CreateStrategicObjective adds an objective statement for an institute.
func CreateStrategicObjective(c *gin.Context) {
	instituteID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid institute ID"})
		return
	}

	var req struct {
		Statement string `json:"statement" binding:"required"`
		IsTrue    bool   `json:"is_true"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	objective := models.StrategicObjective{
		InstituteID: instituteID,
		Statement:   req.Statement,
		IsTrue:      req.IsTrue,
	}
	if err := config.DB.Create(&objective).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create objective"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"objective": objective,
	})
}

// UpdateStrategicObjective edits an objective statement or its truth flag.
func UpdateStrategicObjective(c *gin.Context) {
	objectiveID, err := strconv.Atoi(c.Param("objective_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid objective ID"})
		return
	}

	var objective models.StrategicObjective
	if err := config.DB.First(&objective, "objective_id = ?", objectiveID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Objective not found"})
		return
	}

	var req struct {
		Statement *string `json:"statement"`
		IsTrue    *bool   `json:"is_true"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Statement != nil {
		objective.Statement = *req.Statement
	}
	if req.IsTrue != nil {
		objective.IsTrue = *req.IsTrue
	}
	if err := config.DB.Save(&objective).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update objective"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"objective": objective,
	})
}

// GetReferenceChoices returns the shared questionnaire code tables.
func GetReferenceChoices(c *gin.Context) {
	var focusAreas []models.FocusArea
	var advGroupReps []models.AdvisoryGroupRep
	var teamMembers []models.ResearchTeamMember
	var studentTypes []models.StudentType
	var studentNature []models.StudentParticipationNature
	var outputTypes []models.ProjectOutputType

	db := config.DB
	if err := db.Order("code").Find(&focusAreas).Error; err == nil {
		db.Order("code").Find(&advGroupReps)
		db.Order("code").Find(&teamMembers)
		db.Order("code").Find(&studentTypes)
		db.Order("code").Find(&studentNature)
		db.Order("code").Find(&outputTypes)
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reference data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":                      true,
		"focus_areas":                  focusAreas,
		"advisory_group_reps":          advGroupReps,
		"research_team_members":        teamMembers,
		"student_types":                studentTypes,
		"student_participation_nature": studentNature,
		"project_output_types":         outputTypes,
	})
}
