package services

import (
	"errors"
	"fmt"
	"time"

	"engagement-api/config"
	"engagement-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoActivePeriod is returned when a project is created or finalized for an
// institute that has no open reporting period. Callers must block the save.
var ErrNoActivePeriod = errors.New("institute has no active reporting period")

// SaveIntent is the submitter's intent, derived from the capture form action.
type SaveIntent int

const (
	IntentDraft SaveIntent = iota + 1
	IntentFinal
	IntentDelete
)

// ParseSaveIntent maps the form action field to a SaveIntent.
func ParseSaveIntent(action string) (SaveIntent, error) {
	switch action {
	case "draft":
		return IntentDraft, nil
	case "final", "save", "":
		return IntentFinal, nil
	case "delete":
		return IntentDelete, nil
	default:
		return 0, fmt.Errorf("unknown save action %q", action)
	}
}

// SaveOutcome is the result of running the save state machine. When Forked is
// true, Record is a copy of the original with zero identity and the new
// period assigned; the original row must be left untouched and identity
// assignment is the store's job.
type SaveOutcome struct {
	Record models.ProjectDetail
	Forked bool
}

// PrepareCreate stamps a brand-new submission with the active reporting
// period, its owner, and the requested record status.
func PrepareCreate(p *models.ProjectDetail, activePeriodID int, intent SaveIntent, leader *models.ProjectLeader) {
	p.PeriodID = activePeriodID
	if intent == IntentDraft {
		p.RecordStatus = models.RecordStatusDraft
	} else {
		p.RecordStatus = models.RecordStatusFinal
	}
	if leader != nil {
		p.LeaderID = leader.ProjectLeaderID
		p.InstituteID = leader.InstituteID
	}
	applyTeamFlag(p, teamCodesOf(p))
}

// ApplySave runs the update state machine for an existing submission against
// the single active-period read the caller performed. It does not touch the
// database; the returned outcome tells the caller whether to update the
// existing row or insert a forked copy.
//
// Branches:
//   - delete intent: soft delete, record stays for audit
//   - finalize a draft: status moves to Final; if the period rolled over
//     while drafting, the record moves to the new period in place
//   - re-finalize a final record after rollover: the prior period's snapshot
//     is preserved and a copy is forked into the new period
func ApplySave(p models.ProjectDetail, activePeriodID int, intent SaveIntent) (SaveOutcome, error) {
	switch intent {
	case IntentDelete:
		p.IsDeleted = true

	case IntentDraft:
		// A finalized snapshot from a closed period must stay frozen.
		if p.RecordStatus == models.RecordStatusFinal && p.PeriodID != activePeriodID {
			return SaveOutcome{}, errors.New("cannot redraft a finalized submission from a closed period")
		}
		p.RecordStatus = models.RecordStatusDraft

	case IntentFinal:
		switch p.RecordStatus {
		case models.RecordStatusDraft:
			p.RecordStatus = models.RecordStatusFinal
			if p.PeriodID != activePeriodID {
				p.PeriodID = activePeriodID
			}
		case models.RecordStatusFinal:
			if p.PeriodID != activePeriodID {
				p.PeriodID = activePeriodID
				p.ProjectID = 0
				// The fork is a new submission; its duration fallback must
				// measure against its own creation date, not the original's.
				p.CreatedAt = time.Now()
				applyTeamFlag(&p, teamCodesOf(&p))
				return SaveOutcome{Record: p, Forked: true}, nil
			}
		}

	default:
		return SaveOutcome{}, fmt.Errorf("unknown save intent %d", intent)
	}

	applyTeamFlag(&p, teamCodesOf(&p))
	return SaveOutcome{Record: p}, nil
}

// applyTeamFlag marks a submission as suspect when "Other academics" is the
// only research team answer. The flag is a review marker, not a status; it is
// never cleared here.
func applyTeamFlag(p *models.ProjectDetail, teamCodes []int) {
	if len(teamCodes) == 1 && teamCodes[0] == models.OtherAcademicsCode {
		p.IsFlagged = true
	}
}

func teamCodesOf(p *models.ProjectDetail) []int {
	codes := make([]int, 0, len(p.TeamMembers))
	for _, m := range p.TeamMembers {
		codes = append(codes, m.Code)
	}
	return codes
}

// LifecycleService persists the outcomes of the save state machine.
type LifecycleService struct {
	db *gorm.DB
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	if db == nil {
		db = config.DB
	}
	return &LifecycleService{db: db}
}

// ActivePeriod resolves the institute's currently open reporting period.
func (s *LifecycleService) ActivePeriod(instituteID int) (*models.ReportingPeriod, error) {
	var period models.ReportingPeriod
	err := s.db.Where("institute_id = ? AND is_active = ?", instituteID, true).
		First(&period).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActivePeriod
	}
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// Create stores a new submission under the institute's active period.
func (s *LifecycleService) Create(p *models.ProjectDetail, leader *models.ProjectLeader, intent SaveIntent) error {
	instituteID := p.InstituteID
	if leader != nil {
		instituteID = leader.InstituteID
	}
	period, err := s.ActivePeriod(instituteID)
	if err != nil {
		return err
	}

	PrepareCreate(p, period.PeriodID, intent, leader)
	p.CreatedAt = time.Now()
	return s.db.Omit(clause.Associations).Create(p).Error
}

// Save applies the submitter's intent to an existing submission. The active
// period is read once and the whole branch runs against that read; the
// resulting row (mutated or forked) is then written. The saved record is
// returned so callers can rewrite child collections against its identity.
func (s *LifecycleService) Save(p models.ProjectDetail, intent SaveIntent) (*SaveOutcome, error) {
	period, err := s.ActivePeriod(p.InstituteID)
	if err != nil {
		return nil, err
	}

	outcome, err := ApplySave(p, period.PeriodID, intent)
	if err != nil {
		return nil, err
	}

	if outcome.Forked {
		// New row; MySQL assigns the identity.
		if err := s.db.Omit(clause.Associations).Create(&outcome.Record).Error; err != nil {
			return nil, err
		}
		return &outcome, nil
	}

	if err := s.db.Omit(clause.Associations).Save(&outcome.Record).Error; err != nil {
		return nil, err
	}
	return &outcome, nil
}

// Reject moves a finalized submission to Rejected with the reviewer's note.
// Re-rejecting an already rejected record is a no-op update, not an error;
// drafts and unknown IDs report gorm.ErrRecordNotFound.
func (s *LifecycleService) Reject(projectID int, detail string) error {
	result := s.db.Model(&models.ProjectDetail{}).
		Where("project_id = ? AND record_status IN ?", projectID,
			[]int{models.RecordStatusFinal, models.RecordStatusRejected}).
		Updates(map[string]interface{}{
			"record_status":   models.RecordStatusRejected,
			"is_rejected":     true,
			"rejected_detail": detail,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
