package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"engagement-api/config"
	"engagement-api/models"
	"engagement-api/utils"

	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	RoleID    int    `json:"role_id" binding:"required"`

	// Target institute. Only honored for superusers; institute admins always
	// create accounts for their own institute.
	InstituteID *int `json:"institute_id"`

	// Project leader profile, required when role_id is project leader.
	OrgLevel1ID *int    `json:"org_level_1_id"`
	OrgLevel2ID *int    `json:"org_level_2_id"`
	OrgLevel3ID *int    `json:"org_level_3_id"`
	StaffNo     *string `json:"staff_no"`
	Position    *string `json:"position"`

	SendWelcomeEmail bool `json:"send_welcome_email"`
}

// CreateUser lets an institute admin register a project leader or another
// institute admin for their own institute. A welcome email with the initial
// password is sent when requested.
func CreateUser(c *gin.Context) {
	adminInstituteID, _ := c.Get("instituteID")
	roleID, _ := c.Get("roleID")

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instituteID, err := targetInstitute(roleID.(int), adminInstituteID.(int), req.InstituteID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RoleID != models.RoleInstituteAdmin && req.RoleID != models.RoleProjectLeader {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}
	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if req.RoleID == models.RoleProjectLeader && req.OrgLevel1ID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project leaders need an org level 1 unit"})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := models.User{
		Email:     utils.SanitizeInput(req.Email),
		FirstName: utils.SanitizeInput(req.FirstName),
		LastName:  utils.SanitizeInput(req.LastName),
		Password:  hashed,
		RoleID:    req.RoleID,
		IsActive:  true,
		CreateAt:  &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	switch req.RoleID {
	case models.RoleInstituteAdmin:
		profile := models.InstituteAdmin{UserID: user.UserID, InstituteID: instituteID}
		if err := config.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin profile"})
			return
		}
	case models.RoleProjectLeader:
		profile := models.ProjectLeader{
			UserID:      user.UserID,
			InstituteID: instituteID,
			OrgLevel1ID: *req.OrgLevel1ID,
			OrgLevel2ID: req.OrgLevel2ID,
			OrgLevel3ID: req.OrgLevel3ID,
			StaffNo:     req.StaffNo,
			Position:    req.Position,
		}
		if err := config.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create leader profile"})
			return
		}
	}

	if req.SendWelcomeEmail {
		if err := sendWelcomeEmail(user, req.Password); err != nil {
			// Account creation succeeded; a failed email is logged, not fatal.
			log.Printf("Warning: welcome email to %s failed: %v", user.Email, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
	})
}

// GetInstituteUsers lists the users belonging to the admin's institute.
func GetInstituteUsers(c *gin.Context) {
	instituteID, _ := c.Get("instituteID")

	var leaders []models.ProjectLeader
	if err := config.DB.Where("institute_id = ?", instituteID).Find(&leaders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	userIDs := make([]int, 0, len(leaders))
	for _, leader := range leaders {
		userIDs = append(userIDs, leader.UserID)
	}

	var users []models.User
	if len(userIDs) > 0 {
		if err := config.DB.Preload("ProjectLeader").
			Where("user_id IN ? AND delete_at IS NULL", userIDs).
			Order("email").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

// DeactivateUser soft deletes a user account.
func DeactivateUser(c *gin.Context) {
	instituteID, _ := c.Get("instituteID")
	roleID, _ := c.Get("roleID")

	var user models.User
	if err := config.DB.Preload("InstituteAdmin").Preload("ProjectLeader").
		First(&user, "user_id = ? AND delete_at IS NULL", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if roleID.(int) != models.RoleSuperuser && user.InstituteID() != instituteID.(int) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	now := time.Now()
	user.IsActive = false
	user.DeleteAt = &now
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// targetInstitute resolves the institute a new account belongs to. Institute
// admins always act on their own institute; superusers have no institute of
// their own and must name one.
func targetInstitute(roleID, ownInstituteID int, requested *int) (int, error) {
	if roleID != models.RoleSuperuser {
		return ownInstituteID, nil
	}
	if requested == nil || *requested == 0 {
		return 0, errors.New("institute_id is required")
	}
	return *requested, nil
}

func sendWelcomeEmail(user models.User, password string) error {
	domain := os.Getenv("APP_DOMAIN")
	if domain == "" {
		domain = "localhost"
	}

	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>A new account has been created for you on the engagement project portal.</p>
<p>You can log in at http://%s/ using these details:</p>
<ul>
  <li>Email: %s</li>
  <li>Password: %s</li>
</ul>
<p>Kind regards,<br>The portal team</p>`, user.FullName(), domain, user.Email, password)

	return config.SendMail([]string{user.Email}, "Welcome to the engagement project portal", body)
}
