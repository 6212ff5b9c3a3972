package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"engagement-api/models"
	"engagement-api/services"

	"github.com/gin-gonic/gin"
)

// ExportProjectScores streams a CSV of the scored submissions visible to the
// caller, one row per project with the full breakdown and duration band.
func ExportProjectScores(c *gin.Context) {
	roleID, _ := c.Get("roleID")
	instituteID, _ := c.Get("instituteID")

	filter := services.ProjectListFilter{HideDrafts: true}
	if roleID.(int) != models.RoleSuperuser {
		filter.InstituteID = instituteID.(int)
	}
	if periodID, err := strconv.Atoi(c.Query("period_id")); err == nil {
		filter.PeriodID = periodID
	}

	projects, err := services.NewProjectQueryService(nil).List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	filename := fmt.Sprintf("project-scores-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	header := []string{
		"project_id", "name", "institute_id", "period", "status", "flagged",
		"duration", "x", "y",
		"a_1", "a_2", "a_3", "a_4", "c_1", "c_2", "c_3_a", "c_3_b", "c_4",
	}
	if err := w.Write(header); err != nil {
		return
	}

	for _, p := range projects {
		view := viewOf(p)
		periodName := ""
		if p.Period != nil {
			periodName = p.Period.Name
		}
		row := []string{
			strconv.Itoa(p.ProjectID),
			p.Name,
			strconv.Itoa(p.InstituteID),
			periodName,
			recordStatusLabel(p.RecordStatus),
			strconv.FormatBool(p.IsFlagged),
			strconv.Itoa(view.Duration),
			formatScore(view.Score.X),
			formatScore(view.Score.Y),
			formatScore(view.Score.A1),
			formatScore(view.Score.A2),
			formatScore(view.Score.A3),
			formatScore(view.Score.A4),
			formatScore(view.Score.C1),
			formatScore(view.Score.C2),
			formatScore(view.Score.C3A),
			formatScore(view.Score.C3B),
			formatScore(view.Score.C4),
		}
		if err := w.Write(row); err != nil {
			return
		}
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func recordStatusLabel(status int) string {
	switch status {
	case models.RecordStatusDraft:
		return "draft"
	case models.RecordStatusFinal:
		return "final"
	case models.RecordStatusRejected:
		return "rejected"
	default:
		return strconv.Itoa(status)
	}
}
