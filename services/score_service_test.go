package services

import (
	"testing"
	"time"

	"engagement-api/models"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func objectives(trues, falses int) []models.StrategicObjective {
	var objs []models.StrategicObjective
	for i := 0; i < trues; i++ {
		objs = append(objs, models.StrategicObjective{ObjectiveID: i + 1, IsTrue: true})
	}
	for i := 0; i < falses; i++ {
		objs = append(objs, models.StrategicObjective{ObjectiveID: 100 + i, IsTrue: false})
	}
	return objs
}

func TestCalculateScoreEmptyProjectScoresZero(t *testing.T) {
	breakdown := CalculateScore(&models.ProjectDetail{}, ProjectChildren{})

	if breakdown.X != 0 || breakdown.Y != 0 {
		t.Fatalf("expected zero scores for empty project, got x=%v y=%v", breakdown.X, breakdown.Y)
	}
	for name, v := range map[string]float64{
		"a_1": breakdown.A1, "a_2": breakdown.A2, "a_3": breakdown.A3, "a_4": breakdown.A4,
		"c_1": breakdown.C1, "c_2": breakdown.C2, "c_3_a": breakdown.C3A,
		"c_3_b": breakdown.C3B, "c_4": breakdown.C4,
	} {
		if v != 0 {
			t.Fatalf("expected %s == 0 for empty project, got %v", name, v)
		}
	}
}

func TestObjectiveAlignmentClampsToUpperBound(t *testing.T) {
	// 8 correct answers would be 2.0 unclamped.
	breakdown := CalculateScore(&models.ProjectDetail{}, ProjectChildren{
		StrategicObjectives: objectives(8, 0),
	})
	if breakdown.A1 != 1.0 {
		t.Fatalf("expected a_1 capped at 1.0, got %v", breakdown.A1)
	}
}

func TestObjectiveAlignmentClampsToZero(t *testing.T) {
	breakdown := CalculateScore(&models.ProjectDetail{}, ProjectChildren{
		StrategicObjectives: objectives(0, 6),
	})
	if breakdown.A1 != 0 {
		t.Fatalf("expected a_1 floored at 0, got %v", breakdown.A1)
	}
	if breakdown.Y != 0 {
		t.Fatalf("wrong answers must not drag y negative, got %v", breakdown.Y)
	}
}

func TestObjectiveAlignmentMixedAnswers(t *testing.T) {
	// 2 correct, 2 incorrect: 0.5 - 0.25 = 0.25
	breakdown := CalculateScore(&models.ProjectDetail{}, ProjectChildren{
		StrategicObjectives: objectives(2, 2),
	})
	if breakdown.A1 != 0.25 {
		t.Fatalf("expected a_1 == 0.25, got %v", breakdown.A1)
	}
}

func TestInitiationComponentsAreAdditive(t *testing.T) {
	p := &models.ProjectDetail{
		Initiation:          intPtr(5),
		Authors:             intPtr(2),
		AmendmentsPermitted: strPtr(models.AnswerYes),
		AdvGroup:            strPtr(models.AnswerYes),
		AdvGroupFreq:        intPtr(2),
	}
	breakdown := CalculateScore(p, ProjectChildren{})
	if breakdown.A2 != 3.0 {
		t.Fatalf("expected a_2 == 3.0 (1+0.5+1+0.5), got %v", breakdown.A2)
	}
}

func TestInitiationCodesOutsideRangeScoreNothing(t *testing.T) {
	p := &models.ProjectDetail{
		Initiation:   intPtr(2),
		Authors:      intPtr(1),
		AdvGroup:     strPtr(models.AnswerYes),
		AdvGroupFreq: intPtr(4),
	}
	breakdown := CalculateScore(p, ProjectChildren{})
	if breakdown.A2 != 0 {
		t.Fatalf("expected a_2 == 0, got %v", breakdown.A2)
	}
}

func TestStakeholderCodesCapAtFourUnique(t *testing.T) {
	ch := ProjectChildren{
		AdvGroupReps: []models.AdvisoryGroupRep{
			{Code: 1}, {Code: 2}, {Code: 3},
		},
		TeamMembers: []models.ResearchTeamMember{
			{Code: 3}, {Code: 4}, {Code: 5},
		},
	}
	// 5 unique codes; the 5th contributes nothing beyond the 1.0 cap.
	breakdown := CalculateScore(&models.ProjectDetail{}, ch)
	if breakdown.A3 != 1.0 {
		t.Fatalf("expected a_3 == 1.0, got %v", breakdown.A3)
	}
}

func TestStakeholderCodesDeduplicateAcrossGroups(t *testing.T) {
	ch := ProjectChildren{
		AdvGroupReps: []models.AdvisoryGroupRep{{Code: 1}, {Code: 2}},
		TeamMembers:  []models.ResearchTeamMember{{Code: 1}, {Code: 2}},
	}
	breakdown := CalculateScore(&models.ProjectDetail{}, ch)
	if breakdown.A3 != 0.5 {
		t.Fatalf("expected a_3 == 0.5 for 2 unique codes, got %v", breakdown.A3)
	}
}

func TestInitiativePartyTextRequirements(t *testing.T) {
	tests := []struct {
		name  string
		party int
		text  *string
		want  float64
	}{
		{"party 1 with text", 1, strPtr("joint steering committee"), 2},
		{"party 1 without text", 1, nil, 0},
		{"party 2 without text", 2, nil, 1},
		{"party 3 with text", 3, strPtr("community partner"), 1},
		{"party 3 with empty text", 3, strPtr(""), 0},
	}

	for _, tt := range tests {
		p := &models.ProjectDetail{
			NewInitiativeParty:     intPtr(tt.party),
			NewInitiativePartyText: tt.text,
		}
		breakdown := CalculateScore(p, ProjectChildren{})
		if breakdown.A3 != tt.want {
			t.Fatalf("%s: expected a_3 == %v, got %v", tt.name, tt.want, breakdown.A3)
		}
	}
}

func TestFundingScoreWithBonuses(t *testing.T) {
	ch := ProjectChildren{
		Funding: []models.ProjectFunding{
			{Years: 1, Renewable: strPtr(models.AnswerNo)},
			{Years: 4, Renewable: strPtr(models.AnswerYes)},
			{Years: 1, Renewable: strPtr(models.AnswerNo)},
		},
	}
	// 3 rows at 0.25 each, plus the multi-year and renewable bonuses once.
	breakdown := CalculateScore(&models.ProjectDetail{}, ch)
	if breakdown.A4 != 1.75 {
		t.Fatalf("expected a_4 == 1.75, got %v", breakdown.A4)
	}
}

func TestFundingRowCountCapsAtOne(t *testing.T) {
	var rows []models.ProjectFunding
	for i := 0; i < 6; i++ {
		rows = append(rows, models.ProjectFunding{Years: 1})
	}
	breakdown := CalculateScore(&models.ProjectDetail{}, ProjectChildren{Funding: rows})
	if breakdown.A4 != 1.0 {
		t.Fatalf("expected a_4 row component capped at 1.0, got %v", breakdown.A4)
	}
}

func TestFundingBonusesFireOnce(t *testing.T) {
	ch := ProjectChildren{
		Funding: []models.ProjectFunding{
			{Years: 5, Renewable: strPtr(models.AnswerYes)},
			{Years: 6, Renewable: strPtr(models.AnswerYes)},
		},
	}
	breakdown := CalculateScore(&models.ProjectDetail{}, ch)
	if breakdown.A4 != 0.5+0.5+0.5 {
		t.Fatalf("expected a_4 == 1.5, got %v", breakdown.A4)
	}
}

func TestResearchClassificationBranches(t *testing.T) {
	tests := []struct {
		name     string
		research *int
		text     *string
		want     float64
	}{
		{"basic research with description", intPtr(1), strPtr("field study"), 1.25},
		{"applied research with description", intPtr(2), strPtr("field study"), 1.25},
		{"reflective with description", intPtr(3), strPtr("notes"), 0.5},
		{"code 4 scores nothing", intPtr(4), strPtr("notes"), 0},
		{"no description scores nothing", intPtr(1), nil, 0},
	}

	for _, tt := range tests {
		p := &models.ProjectDetail{Research: tt.research, ResearchText: tt.text}
		breakdown := CalculateScore(p, ProjectChildren{})
		if breakdown.C1 != tt.want {
			t.Fatalf("%s: expected c_1 == %v, got %v", tt.name, tt.want, breakdown.C1)
		}
	}
}

func TestPhdComponentNeedsStudentRows(t *testing.T) {
	p := &models.ProjectDetail{PhdResearch: strPtr(models.AnswerYes)}

	breakdown := CalculateScore(p, ProjectChildren{})
	if breakdown.C1 != 0 {
		t.Fatalf("phd answer without students must not score, got %v", breakdown.C1)
	}

	breakdown = CalculateScore(p, ProjectChildren{
		PhdStudents: []models.PHDStudent{{Name: "A. Mokoena"}},
	})
	if breakdown.C1 != 0.5 {
		t.Fatalf("expected c_1 == 0.5, got %v", breakdown.C1)
	}
}

func TestOutputsOnlyCountWithEvidence(t *testing.T) {
	ch := ProjectChildren{
		Outputs: []models.ProjectOutput{
			{URL: strPtr("https://example.org/a")},
			{DOI: strPtr("10.1000/xyz")},
			{AttachmentPath: strPtr("uploads/attachments/1/x.pdf")},
			{}, // no evidence
			{URL: strPtr("")},
		},
	}
	breakdown := CalculateScore(&models.ProjectDetail{}, ch)
	if breakdown.C2 != 0.75 {
		t.Fatalf("expected c_2 == 0.75, got %v", breakdown.C2)
	}
}

func TestOutputsCapAtTwo(t *testing.T) {
	var outputs []models.ProjectOutput
	for i := 0; i < 12; i++ {
		outputs = append(outputs, models.ProjectOutput{DOI: strPtr("10.1000/x")})
	}
	breakdown := CalculateScore(&models.ProjectDetail{}, ProjectChildren{Outputs: outputs})
	if breakdown.C2 != 2.0 {
		t.Fatalf("expected c_2 capped at 2.0, got %v", breakdown.C2)
	}
}

func TestNewCoursesOutrankCurriculumChanges(t *testing.T) {
	p := &models.ProjectDetail{
		NewCourses:            strPtr(models.AnswerYes),
		CurriculumChanges:     strPtr(models.AnswerYes),
		CurriculumChangesText: strPtr("revised syllabus"),
	}
	ch := ProjectChildren{
		NewCourses: []models.NewCourseDetail{{Code: "ENG101", Name: "Engagement 101"}},
	}
	breakdown := CalculateScore(p, ch)
	if breakdown.C3A != 2.0 {
		t.Fatalf("expected c_3_a == 2.0 (no stacking), got %v", breakdown.C3A)
	}
}

func TestCurriculumChangesFallback(t *testing.T) {
	p := &models.ProjectDetail{
		NewCourses:            strPtr(models.AnswerYes), // answered yes but no rows
		CurriculumChanges:     strPtr(models.AnswerYes),
		CurriculumChangesText: strPtr("revised syllabus"),
	}
	breakdown := CalculateScore(p, ProjectChildren{})
	if breakdown.C3A != 1.0 {
		t.Fatalf("expected c_3_a == 1.0 fallback, got %v", breakdown.C3A)
	}
}

func TestStudentInvolvementComponents(t *testing.T) {
	p := &models.ProjectDetail{
		StudentsInvolved:  strPtr(models.AnswerYes),
		CourseRequirement: strPtr(models.AnswerYes),
	}
	ch := ProjectChildren{
		StudentNature: []models.StudentParticipationNature{
			{Code: 1}, {Code: 2}, {Code: 3}, // third one is beyond the 0.5 cap
		},
		CourseReqs: []models.CourseReqDetail{{Code: "SOC200", Name: "Service learning"}},
	}
	breakdown := CalculateScore(p, ch)
	if breakdown.C3B != 0.5+0.5+1.0 {
		t.Fatalf("expected c_3_b == 2.0, got %v", breakdown.C3B)
	}
}

func TestCollaborationNeedsNamedCollaborators(t *testing.T) {
	p := &models.ProjectDetail{ExternalCollaboration: strPtr(models.AnswerYes)}

	breakdown := CalculateScore(p, ProjectChildren{})
	if breakdown.C4 != 0 {
		t.Fatalf("expected c_4 == 0 without collaborator rows, got %v", breakdown.C4)
	}

	breakdown = CalculateScore(p, ProjectChildren{
		Collaborators: []models.Collaborator{{Name: "B. Nkosi", University: "UCT"}},
	})
	if breakdown.C4 != 1.0 {
		t.Fatalf("expected c_4 == 1.0, got %v", breakdown.C4)
	}
}

func TestBreakdownComponentsSumToTotals(t *testing.T) {
	p := &models.ProjectDetail{
		Initiation:             intPtr(4),
		Authors:                intPtr(2),
		AmendmentsPermitted:    strPtr(models.AnswerYes),
		AdvGroup:               strPtr(models.AnswerYes),
		AdvGroupFreq:           intPtr(1),
		NewInitiativeParty:     intPtr(2),
		Research:               intPtr(1),
		ResearchText:           strPtr("survey"),
		PublicDomain:           strPtr(models.AnswerYes),
		PhdResearch:            strPtr(models.AnswerYes),
		NewCourses:             strPtr(models.AnswerYes),
		StudentsInvolved:       strPtr(models.AnswerYes),
		CourseRequirement:      strPtr(models.AnswerYes),
		ExternalCollaboration:  strPtr(models.AnswerYes),
		NewInitiativePartyText: strPtr("partner org"),
	}
	ch := ProjectChildren{
		StrategicObjectives: objectives(3, 1),
		AdvGroupReps:        []models.AdvisoryGroupRep{{Code: 1}, {Code: 2}},
		TeamMembers:         []models.ResearchTeamMember{{Code: 5}},
		Funding: []models.ProjectFunding{
			{Years: 3, Renewable: strPtr(models.AnswerYes)},
		},
		PhdStudents:   []models.PHDStudent{{Name: "X"}},
		Outputs:       []models.ProjectOutput{{URL: strPtr("https://example.org")}},
		NewCourses:    []models.NewCourseDetail{{Code: "C1", Name: "Course"}},
		CourseReqs:    []models.CourseReqDetail{{Code: "C2", Name: "Req"}},
		Collaborators: []models.Collaborator{{Name: "N", University: "U"}},
		StudentNature: []models.StudentParticipationNature{{Code: 1}},
	}

	breakdown := CalculateScore(p, ch)

	if got := breakdown.A1 + breakdown.A2 + breakdown.A3 + breakdown.A4; got != breakdown.Y {
		t.Fatalf("articulation components sum to %v, want y == %v", got, breakdown.Y)
	}
	if got := breakdown.C1 + breakdown.C2 + breakdown.C3A + breakdown.C3B + breakdown.C4; got != breakdown.X {
		t.Fatalf("academic components sum to %v, want x == %v", got, breakdown.X)
	}
}

func TestDurationBucketBoundaries(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  *time.Time
		want int
	}{
		{"under two years", datePtr(2021, 6, 1), 0},
		{"exactly two years", datePtr(2022, 1, 1), 1},
		{"three and a half years", datePtr(2023, 7, 1), 2},
		{"four and a half years", datePtr(2024, 7, 1), 3},
		{"over five years", datePtr(2025, 6, 1), 4},
	}

	for _, tt := range tests {
		got := DurationBucket(start, tt.end, start)
		if got != tt.want {
			t.Fatalf("%s: expected bucket %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestDurationBucketFallsBackToCreationDate(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	if got := DurationBucket(start, nil, createdAt); got != 2 {
		t.Fatalf("expected bucket 2 using creation date, got %d", got)
	}
}
