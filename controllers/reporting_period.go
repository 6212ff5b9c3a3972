package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"engagement-api/config"
	"engagement-api/models"
	"engagement-api/services"

	"github.com/gin-gonic/gin"
)

// GetReportingPeriods returns the periods visible to the caller. Institute
// members see their own institute's periods plus the closed periods of other
// institutes; superusers see everything.
func GetReportingPeriods(c *gin.Context) {
	roleID, _ := c.Get("roleID")
	instituteID, _ := c.Get("instituteID")

	periods, err := services.NewPeriodService(nil).
		ListForViewer(instituteID.(int), roleID.(int) == models.RoleSuperuser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reporting periods"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"periods": periods,
		"total":   len(periods),
	})
}

// GetActiveReportingPeriod returns the caller institute's open period.
func GetActiveReportingPeriod(c *gin.Context) {
	instituteID, _ := c.Get("instituteID")

	period, err := services.NewLifecycleService(nil).ActivePeriod(instituteID.(int))
	if errors.Is(err, services.ErrNoActivePeriod) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active reporting period"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reporting period"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"period":  period,
	})
}

// OpenReportingPeriod creates a new active period for the admin's institute.
// Blocked while another period is still open.
func OpenReportingPeriod(c *gin.Context) {
	instituteID, _ := c.Get("instituteID")

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	period, err := services.NewPeriodService(nil).Open(instituteID.(int), req.Name, req.Description)
	if errors.Is(err, services.ErrPeriodAlreadyOpen) {
		c.JSON(http.StatusConflict, gin.H{"error": "An active reporting period already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open reporting period"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"period":  period,
	})
}

// CloseReportingPeriod deactivates a period and stamps its close date.
func CloseReportingPeriod(c *gin.Context) {
	instituteID, _ := c.Get("instituteID")
	roleID, _ := c.Get("roleID")

	periodID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period ID"})
		return
	}

	// Institute admins can only close their own institute's period.
	if roleID.(int) != models.RoleSuperuser {
		var period models.ReportingPeriod
		if err := config.DB.First(&period, "period_id = ?", periodID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reporting period not found"})
			return
		}
		if period.InstituteID != instituteID.(int) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	period, err := services.NewPeriodService(nil).Close(periodID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close reporting period"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"period":  period,
	})
}
