package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"engagement-api/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func team(codes ...int) []models.ResearchTeamMember {
	members := make([]models.ResearchTeamMember, 0, len(codes))
	for _, code := range codes {
		members = append(members, models.ResearchTeamMember{Code: code})
	}
	return members
}

func TestParseSaveIntent(t *testing.T) {
	tests := []struct {
		action string
		want   SaveIntent
	}{
		{"draft", IntentDraft},
		{"final", IntentFinal},
		{"save", IntentFinal},
		{"", IntentFinal},
		{"delete", IntentDelete},
	}
	for _, tt := range tests {
		got, err := ParseSaveIntent(tt.action)
		if err != nil {
			t.Fatalf("ParseSaveIntent(%q): %v", tt.action, err)
		}
		if got != tt.want {
			t.Fatalf("ParseSaveIntent(%q) = %v, want %v", tt.action, got, tt.want)
		}
	}

	if _, err := ParseSaveIntent("publish"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestPrepareCreateStampsOwnerAndPeriod(t *testing.T) {
	leader := &models.ProjectLeader{ProjectLeaderID: 12, InstituteID: 3}
	p := &models.ProjectDetail{Name: "Water access survey"}

	PrepareCreate(p, 9, IntentDraft, leader)

	if p.PeriodID != 9 {
		t.Fatalf("expected period 9, got %d", p.PeriodID)
	}
	if p.RecordStatus != models.RecordStatusDraft {
		t.Fatalf("expected draft status, got %d", p.RecordStatus)
	}
	if p.LeaderID != 12 || p.InstituteID != 3 {
		t.Fatalf("expected owner stamped, got leader=%d institute=%d", p.LeaderID, p.InstituteID)
	}
}

func TestApplySaveDeleteIsSoft(t *testing.T) {
	p := models.ProjectDetail{ProjectID: 5, RecordStatus: models.RecordStatusFinal, PeriodID: 2}

	outcome, err := ApplySave(p, 2, IntentDelete)
	if err != nil {
		t.Fatalf("ApplySave: %v", err)
	}
	if !outcome.Record.IsDeleted {
		t.Fatal("expected soft delete")
	}
	if outcome.Forked || outcome.Record.ProjectID != 5 {
		t.Fatal("delete must keep the existing row identity")
	}
}

func TestApplySaveFinalizesDraftInPlace(t *testing.T) {
	p := models.ProjectDetail{ProjectID: 5, RecordStatus: models.RecordStatusDraft, PeriodID: 2}

	outcome, err := ApplySave(p, 2, IntentFinal)
	if err != nil {
		t.Fatalf("ApplySave: %v", err)
	}
	if outcome.Forked {
		t.Fatal("finalizing a draft must not fork")
	}
	if outcome.Record.RecordStatus != models.RecordStatusFinal {
		t.Fatalf("expected final status, got %d", outcome.Record.RecordStatus)
	}
	if outcome.Record.PeriodID != 2 || outcome.Record.ProjectID != 5 {
		t.Fatal("same-period finalize must keep period and identity")
	}
}

func TestApplySaveDraftFollowsPeriodRollover(t *testing.T) {
	// Drafts are working copies; they move into the new period in place.
	p := models.ProjectDetail{ProjectID: 5, RecordStatus: models.RecordStatusDraft, PeriodID: 2}

	outcome, err := ApplySave(p, 3, IntentFinal)
	if err != nil {
		t.Fatalf("ApplySave: %v", err)
	}
	if outcome.Forked {
		t.Fatal("draft rollover must not fork")
	}
	if outcome.Record.PeriodID != 3 || outcome.Record.ProjectID != 5 {
		t.Fatalf("expected in-place reassign to period 3, got period=%d id=%d",
			outcome.Record.PeriodID, outcome.Record.ProjectID)
	}
}

func TestApplySaveForksFinalAcrossPeriods(t *testing.T) {
	p := models.ProjectDetail{ProjectID: 5, RecordStatus: models.RecordStatusFinal, PeriodID: 2}

	outcome, err := ApplySave(p, 3, IntentFinal)
	if err != nil {
		t.Fatalf("ApplySave: %v", err)
	}
	if !outcome.Forked {
		t.Fatal("re-finalizing under a new period must fork")
	}
	if outcome.Record.ProjectID != 0 {
		t.Fatalf("forked copy must have zero identity, got %d", outcome.Record.ProjectID)
	}
	if outcome.Record.PeriodID != 3 {
		t.Fatalf("forked copy must belong to period 3, got %d", outcome.Record.PeriodID)
	}
	// ApplySave takes the record by value; the caller's snapshot is untouched.
	if p.ProjectID != 5 || p.PeriodID != 2 {
		t.Fatal("the prior period's snapshot must be preserved")
	}
}

func TestApplySaveForkGetsFreshCreationDate(t *testing.T) {
	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	p := models.ProjectDetail{
		ProjectID:    5,
		RecordStatus: models.RecordStatusFinal,
		PeriodID:     2,
		CreatedAt:    created,
	}

	outcome, err := ApplySave(p, 3, IntentFinal)
	if err != nil {
		t.Fatalf("ApplySave: %v", err)
	}
	if !outcome.Forked {
		t.Fatal("expected a fork")
	}
	// A no-end-date project measures its duration up to created_at; the fork
	// must not inherit the original's date and report a stale band.
	if outcome.Record.CreatedAt.Equal(created) {
		t.Fatalf("forked copy kept the original creation date %v", outcome.Record.CreatedAt)
	}
	if outcome.Record.CreatedAt.Before(created) {
		t.Fatalf("fork creation date %v predates the original", outcome.Record.CreatedAt)
	}
	if p.CreatedAt != created {
		t.Fatal("the original snapshot's creation date must be untouched")
	}
}

func TestApplySaveRefinalizeSamePeriodUpdatesInPlace(t *testing.T) {
	p := models.ProjectDetail{ProjectID: 5, RecordStatus: models.RecordStatusFinal, PeriodID: 3}

	outcome, err := ApplySave(p, 3, IntentFinal)
	if err != nil {
		t.Fatalf("ApplySave: %v", err)
	}
	if outcome.Forked || outcome.Record.ProjectID != 5 {
		t.Fatal("same-period re-finalize must update the existing row")
	}
}

func TestApplySaveRejectsRedraftOfClosedPeriodFinal(t *testing.T) {
	p := models.ProjectDetail{ProjectID: 5, RecordStatus: models.RecordStatusFinal, PeriodID: 2}

	if _, err := ApplySave(p, 3, IntentDraft); err == nil {
		t.Fatal("expected error when redrafting a closed-period final")
	}
}

func TestApplySaveAllowsRedraftWithinActivePeriod(t *testing.T) {
	p := models.ProjectDetail{ProjectID: 5, RecordStatus: models.RecordStatusFinal, PeriodID: 3}

	outcome, err := ApplySave(p, 3, IntentDraft)
	if err != nil {
		t.Fatalf("ApplySave: %v", err)
	}
	if outcome.Record.RecordStatus != models.RecordStatusDraft {
		t.Fatalf("expected draft status, got %d", outcome.Record.RecordStatus)
	}
}

func TestTeamFlagRequiresExactSingleton(t *testing.T) {
	tests := []struct {
		name  string
		codes []int
		want  bool
	}{
		{"only other academics", []int{models.OtherAcademicsCode}, true},
		{"other academics among others", []int{1, models.OtherAcademicsCode}, false},
		{"no team answers", nil, false},
		{"single non-suspect code", []int{4}, false},
	}

	for _, tt := range tests {
		p := models.ProjectDetail{
			RecordStatus: models.RecordStatusDraft,
			PeriodID:     1,
			TeamMembers:  team(tt.codes...),
		}
		outcome, err := ApplySave(p, 1, IntentFinal)
		if err != nil {
			t.Fatalf("%s: ApplySave: %v", tt.name, err)
		}
		if outcome.Record.IsFlagged != tt.want {
			t.Fatalf("%s: expected is_flagged=%v, got %v", tt.name, tt.want, outcome.Record.IsFlagged)
		}
	}
}

func TestTeamFlagIsNeverCleared(t *testing.T) {
	p := models.ProjectDetail{
		RecordStatus: models.RecordStatusDraft,
		PeriodID:     1,
		IsFlagged:    true,
		TeamMembers:  team(1, 2),
	}
	outcome, err := ApplySave(p, 1, IntentFinal)
	if err != nil {
		t.Fatalf("ApplySave: %v", err)
	}
	if !outcome.Record.IsFlagged {
		t.Fatal("an existing flag must survive later saves")
	}
}

// Scripted database/sql driver so service statements can run against a real
// GORM session without a MySQL server. Each step describes one expected
// statement; exec steps answer with a row count instead of rows.

type queryStep struct {
	pattern      *regexp.Regexp
	args         []driver.Value // nil skips argument checking
	exec         bool
	columns      []string
	rows         [][]driver.Value
	rowsAffected int64
	err          error
}

type scriptedDB struct {
	mu    sync.Mutex
	steps []*queryStep
}

func (db *scriptedDB) next(exec bool, query string, args []driver.NamedValue) (*queryStep, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) == 0 {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	step := db.steps[0]
	if step.exec != exec {
		return nil, fmt.Errorf("unexpected statement kind for: %s", query)
	}
	if !step.pattern.MatchString(query) {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	if step.args != nil {
		if len(step.args) != len(args) {
			return nil, fmt.Errorf("unexpected arg count for %s: got %d want %d", query, len(args), len(step.args))
		}
		for i := range args {
			if args[i].Value != step.args[i] {
				return nil, fmt.Errorf("unexpected arg %d for %s: got %v want %v", i, query, args[i].Value, step.args[i])
			}
		}
	}
	db.steps = db.steps[1:]
	return step, nil
}

func (db *scriptedDB) verifyComplete() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.steps) != 0 {
		return fmt.Errorf("unmet expectations: %d", len(db.steps))
	}
	return nil
}

type scriptedDriver struct {
	db *scriptedDB
}

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{db: d.db}, nil
}

type scriptedConn struct {
	db *scriptedDB
}

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *scriptedConn) Close() error { return nil }

func (c *scriptedConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *scriptedConn) Query(query string, args []driver.Value) (driver.Rows, error) {
	step, err := c.db.next(false, query, namedValues(args))
	if err != nil {
		return nil, err
	}
	if err := step.err; err != nil {
		return nil, err
	}
	return &scriptedRows{columns: step.columns, rows: step.rows}, nil
}

func (c *scriptedConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	step, err := c.db.next(true, query, namedValues(args))
	if err != nil {
		return nil, err
	}
	if err := step.err; err != nil {
		return nil, err
	}
	return scriptedResult{rowsAffected: step.rowsAffected}, nil
}

func namedValues(args []driver.Value) []driver.NamedValue {
	named := make([]driver.NamedValue, len(args))
	for i, v := range args {
		named[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return named
}

type scriptedResult struct {
	rowsAffected int64
}

func (r scriptedResult) LastInsertId() (int64, error) { return 0, nil }

func (r scriptedResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type scriptedRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *scriptedRows) Columns() []string { return r.columns }

func (r *scriptedRows) Close() error { return nil }

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	for i := range dest {
		dest[i] = nil
	}
	for i := range row {
		dest[i] = row[i]
	}
	r.idx++
	return nil
}

func newScriptedGormDB(t *testing.T, steps []*queryStep) (*gorm.DB, *scriptedDB, func()) {
	t.Helper()
	state := &scriptedDB{steps: steps}
	driverName := fmt.Sprintf("scripted_%d", time.Now().UnixNano())
	sql.Register(driverName, &scriptedDriver{db: state})

	sqlDB, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("failed to open sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to create gorm db: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}
	return gormDB, state, cleanup
}

func TestActivePeriodResolvesOpenPeriod(t *testing.T) {
	openDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			pattern: regexp.MustCompile("SELECT .* FROM `reporting_periods` WHERE institute_id = \\? AND is_active = \\?"),
			columns: []string{"period_id", "institute_id", "name", "description", "open_date", "close_date", "is_active"},
			rows: [][]driver.Value{
				{int64(3), int64(7), "2026 capture round", "", openDate, nil, true},
			},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewLifecycleService(gormDB)
	period, err := service.ActivePeriod(7)
	if err != nil {
		t.Fatalf("ActivePeriod: %v", err)
	}
	if period.PeriodID != 3 || period.InstituteID != 7 {
		t.Fatalf("unexpected period: %+v", period)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestActivePeriodReturnsSentinelWhenNoneOpen(t *testing.T) {
	steps := []*queryStep{
		{
			pattern: regexp.MustCompile("SELECT .* FROM `reporting_periods` WHERE institute_id = \\? AND is_active = \\?"),
			columns: []string{"period_id", "institute_id", "name", "description", "open_date", "close_date", "is_active"},
			rows:    [][]driver.Value{},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewLifecycleService(gormDB)
	if _, err := service.ActivePeriod(7); !errors.Is(err, ErrNoActivePeriod) {
		t.Fatalf("expected ErrNoActivePeriod, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestRejectUpdatesFinalizedSubmission(t *testing.T) {
	steps := []*queryStep{
		{
			pattern:      regexp.MustCompile("UPDATE `project_details` SET"),
			exec:         true,
			rowsAffected: 1,
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewLifecycleService(gormDB)
	if err := service.Reject(42, "missing evidence"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestRejectReportsMissingOrDraftSubmission(t *testing.T) {
	// Drafts and unknown IDs match no row; the caller must learn that instead
	// of getting a silent success.
	steps := []*queryStep{
		{
			pattern: regexp.MustCompile("UPDATE `project_details` SET"),
			exec:    true,
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewLifecycleService(gormDB)
	if err := service.Reject(42, "missing evidence"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}
