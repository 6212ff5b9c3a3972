package controllers

import (
	"net/http"
	"strconv"

	"engagement-api/models"
	"engagement-api/services"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns per-institute submission counts and score
// averages for the reviewer dashboard.
func GetDashboardStats(c *gin.Context) {
	roleID, _ := c.Get("roleID")
	instituteID, _ := c.Get("instituteID")

	filter := services.ProjectListFilter{}
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

	var drafts, finals, rejected, flagged int
	var sumX, sumY float64
	durations := map[int]int{}

	for _, p := range projects {
		switch p.RecordStatus {
		case models.RecordStatusDraft:
			drafts++
		case models.RecordStatusFinal:
			finals++
		case models.RecordStatusRejected:
			rejected++
		}
		if p.IsFlagged {
			flagged++
		}

		// Drafts are still in progress; scores only count finalized work.
		if p.RecordStatus == models.RecordStatusDraft {
			continue
		}
		view := viewOf(p)
		sumX += view.Score.X
		sumY += view.Score.Y
		durations[view.Duration]++
	}

	scored := finals + rejected
	avgX, avgY := 0.0, 0.0
	if scored > 0 {
		avgX = sumX / float64(scored)
		avgY = sumY / float64(scored)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"total":            len(projects),
			"drafts":           drafts,
			"finals":           finals,
			"rejected":         rejected,
			"flagged":          flagged,
			"avg_x":            avgX,
			"avg_y":            avgY,
			"duration_buckets": durations,
		},
	})
}
