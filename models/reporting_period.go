package models

import "time"

// ReportingPeriod represents the reporting_periods table. At most one period
// per institute may be active at a time; closing a period stamps close_date.
type ReportingPeriod struct {
	PeriodID    int        `gorm:"primaryKey;column:period_id" json:"period_id"`
	InstituteID int        `gorm:"column:institute_id" json:"institute_id"`
	Name        string     `gorm:"column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	OpenDate    time.Time  `gorm:"column:open_date" json:"open_date"`
	CloseDate   *time.Time `gorm:"column:close_date" json:"close_date,omitempty"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`

	Institute *Institute `gorm:"foreignKey:InstituteID" json:"institute,omitempty"`
}

// TableName overrides the table name for ReportingPeriod
func (ReportingPeriod) TableName() string {
	return "reporting_periods"
}
