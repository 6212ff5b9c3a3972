package services

import (
	"time"

	"engagement-api/models"
)

// ProjectChildren bundles everything the score calculation reads besides the
// project row itself: the six owned child collections and the four reference
// selections. Callers fetch these eagerly (see ProjectQueryService) so the
// calculation stays free of database access.
type ProjectChildren struct {
	Funding       []models.ProjectFunding
	PhdStudents   []models.PHDStudent
	Outputs       []models.ProjectOutput
	NewCourses    []models.NewCourseDetail
	CourseReqs    []models.CourseReqDetail
	Collaborators []models.Collaborator

	StrategicObjectives []models.StrategicObjective
	AdvGroupReps        []models.AdvisoryGroupRep
	TeamMembers         []models.ResearchTeamMember
	StudentNature       []models.StudentParticipationNature
}

// ScoreBreakdown holds the two composite indicators and their per-step
// contributions. X is the academic core total, Y the articulation total.
// Each named component is the increment that step added to its running
// total, which is how reviewers see the breakdown.
type ScoreBreakdown struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Articulation components
	A1 float64 `json:"a_1"` // alignment with strategic objectives
	A2 float64 `json:"a_2"` // initiation
	A3 float64 `json:"a_3"` // external stakeholders
	A4 float64 `json:"a_4"` // funding

	// Academic core components
	C1  float64 `json:"c_1"`   // new knowledge / product
	C2  float64 `json:"c_2"`   // dissemination
	C3A float64 `json:"c_3_a"` // teaching / curriculum development
	C3B float64 `json:"c_3_b"` // formal teaching
	C4  float64 `json:"c_4"`   // academic networks
}

// CalculateScore computes the academic core (x) and articulation (y)
// indicators for a project. Maximum for each is 9.0. Missing answers and
// empty collections contribute nothing; the function never fails.
func CalculateScore(p *models.ProjectDetail, ch ProjectChildren) ScoreBreakdown {
	var x, y float64

	// a_1: correct objective answers score 0.25, incorrect -0.125, with the
	// step total clamped to [0, 1].
	step := 0.0
	for _, obj := range ch.StrategicObjectives {
		if obj.IsTrue {
			step += 0.25
		} else {
			step -= 0.125
		}
	}
	if step < 0 {
		step = 0
	}
	if step > 1.0 {
		step = 1.0
	}
	y += step
	a1 := y

	// a_2: how the project was initiated and governed.
	if p.Initiation != nil && (*p.Initiation == 4 || *p.Initiation == 5 || *p.Initiation == 6) {
		y += 1.0
	}
	if p.Authors != nil && *p.Authors == 2 {
		y += 0.5
	}
	if models.AnswerIs(p.AmendmentsPermitted, models.AnswerYes) {
		y += 1.0
	}
	if models.AnswerIs(p.AdvGroup, models.AnswerYes) &&
		p.AdvGroupFreq != nil && *p.AdvGroupFreq >= 1 && *p.AdvGroupFreq <= 3 {
		y += 0.5
	}
	a2 := y - a1

	// a_3: distinct external stakeholder codes across the advisory group and
	// research team, 0.25 each up to 1.0.
	seen := make(map[int]bool)
	for _, rep := range ch.AdvGroupReps {
		seen[rep.Code] = true
	}
	for _, member := range ch.TeamMembers {
		seen[member.Code] = true
	}
	step = 0.25 * float64(len(seen))
	if step > 1.0 {
		step = 1.0
	}
	y += step

	// Initiative-party answers 1 and 3 only count with supporting text.
	if p.NewInitiativeParty != nil {
		switch *p.NewInitiativeParty {
		case 1:
			if strPresent(p.NewInitiativePartyText) {
				y += 2
			}
		case 2:
			y += 1
		case 3:
			if strPresent(p.NewInitiativePartyText) {
				y += 1
			}
		}
	}
	a3 := y - a2 - a1

	// a_4: funding sources, 0.25 per row up to 1.0, plus one-off bonuses for
	// multi-year and renewable funding.
	step = 0.25 * float64(len(ch.Funding))
	if step > 1.0 {
		step = 1.0
	}
	for _, f := range ch.Funding {
		if f.Years >= 3.0 {
			step += 0.5
			break
		}
	}
	for _, f := range ch.Funding {
		if models.AnswerIs(f.Renewable, models.AnswerYes) {
			step += 0.5
			break
		}
	}
	y += step
	a4 := y - a1 - a2 - a3

	// c_1: research classification requires supporting text to count.
	if p.Research != nil && strPresent(p.ResearchText) {
		if *p.Research == 1 || *p.Research == 2 {
			x += 1.25
		} else if *p.Research == 3 {
			x += 0.5
		}
	}
	if models.AnswerIs(p.PublicDomain, models.AnswerYes) {
		x += 0.25
	}
	if models.AnswerIs(p.PhdResearch, models.AnswerYes) && len(ch.PhdStudents) > 0 {
		x += 0.5
	}
	c1 := x

	// c_2: outputs only count when backed by a URL, DOI or attachment.
	step = 0.0
	for _, output := range ch.Outputs {
		if output.HasEvidence() {
			step += 0.25
			if step == 2.0 {
				break
			}
		}
	}
	x += step
	c2 := x - c1

	// c_3_a: new courses outrank curriculum changes; the two never stack.
	if models.AnswerIs(p.NewCourses, models.AnswerYes) && len(ch.NewCourses) > 0 {
		x += 2.0
	} else if models.AnswerIs(p.CurriculumChanges, models.AnswerYes) && strPresent(p.CurriculumChangesText) {
		x += 1.0
	}
	c3a := x - c1 - c2

	// c_3_b: student involvement.
	if models.AnswerIs(p.StudentsInvolved, models.AnswerYes) {
		x += 0.5
	}
	step = 0.25 * float64(len(ch.StudentNature))
	if step > 0.5 {
		step = 0.5
	}
	x += step
	if models.AnswerIs(p.CourseRequirement, models.AnswerYes) && len(ch.CourseReqs) > 0 {
		x += 1
	}
	c3b := x - c1 - c2 - c3a

	// c_4: external academic collaboration needs named collaborators.
	if models.AnswerIs(p.ExternalCollaboration, models.AnswerYes) && len(ch.Collaborators) > 0 {
		x += 1.0
	}
	c4 := x - c1 - c2 - c3a - c3b

	return ScoreBreakdown{
		X:   x,
		Y:   y,
		A1:  a1,
		A2:  a2,
		A3:  a3,
		A4:  a4,
		C1:  c1,
		C2:  c2,
		C3A: c3a,
		C3B: c3b,
		C4:  c4,
	}
}

// DurationBucket maps a project's elapsed time to a 0-4 duration band used by
// list views and exports. Projects without an end date run up to their
// creation date. Band edges are strict less-than comparisons, so exactly two
// years falls in band 1.
func DurationBucket(start time.Time, end *time.Time, createdAt time.Time) int {
	to := createdAt
	if end != nil {
		to = *end
	}
	days := int(to.Sub(start).Hours() / 24)
	years := float64(days) / 365.25
	switch {
	case years < 2.0:
		return 0
	case years < 3.0:
		return 1
	case years < 4.0:
		return 2
	case years < 5.0:
		return 3
	default:
		return 4
	}
}

func strPresent(s *string) bool {
	return s != nil && *s != ""
}
