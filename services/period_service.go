package services

import (
	"errors"
	"time"

	"engagement-api/config"
	"engagement-api/models"

	"gorm.io/gorm"
)

// ErrPeriodAlreadyOpen is returned when opening a reporting period while the
// institute still has an active one.
var ErrPeriodAlreadyOpen = errors.New("institute already has an active reporting period")

// PeriodService manages reporting periods. Only one period per institute may
// be active at a time; all submissions land in the active period.
type PeriodService struct {
	db *gorm.DB
}

func NewPeriodService(db *gorm.DB) *PeriodService {
	if db == nil {
		db = config.DB
	}
	return &PeriodService{db: db}
}

// Open creates a new active reporting period for the institute. The open date
// is stamped here, not taken from the caller.
func (s *PeriodService) Open(instituteID int, name, description string) (*models.ReportingPeriod, error) {
	var active int64
	if err := s.db.Model(&models.ReportingPeriod{}).
		Where("institute_id = ? AND is_active = ?", instituteID, true).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, ErrPeriodAlreadyOpen
	}

	period := models.ReportingPeriod{
		InstituteID: instituteID,
		Name:        name,
		Description: description,
		OpenDate:    time.Now(),
		IsActive:    true,
	}
	if err := s.db.Create(&period).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

// Close deactivates a reporting period and stamps its close date. Closing an
// already closed period changes nothing.
func (s *PeriodService) Close(periodID int) (*models.ReportingPeriod, error) {
	var period models.ReportingPeriod
	if err := s.db.First(&period, "period_id = ?", periodID).Error; err != nil {
		return nil, err
	}
	if !period.IsActive {
		return &period, nil
	}

	now := time.Now()
	period.IsActive = false
	period.CloseDate = &now
	if err := s.db.Save(&period).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

// ListForViewer returns the reporting periods a user may see: superusers get
// everything, institute members get all of their own institute's periods and
// only the closed periods of other institutes.
func (s *PeriodService) ListForViewer(viewerInstituteID int, superuser bool) ([]models.ReportingPeriod, error) {
	var periods []models.ReportingPeriod
	q := s.db.Order("open_date DESC")
	if !superuser {
		q = q.Where("institute_id = ? OR is_active = ?", viewerInstituteID, false)
	}
	if err := q.Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}
