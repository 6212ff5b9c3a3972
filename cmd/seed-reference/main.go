// Seeds the shared questionnaire code tables.
// cmd/seed-reference/main.go
package main

import (
	"log"

	"engagement-api/config"
	"engagement-api/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

var focusAreas = map[int]string{
	1: "Community development",
	2: "Economic development",
	3: "Education and schools",
	4: "Health",
	5: "Environment and sustainability",
	6: "Arts and culture",
	7: "Policy and governance",
	8: "Other",
}

var advisoryGroupReps = map[int]string{
	1: "Government",
	2: "Business or industry",
	3: "Civil society organisations",
	4: "Community members",
	5: "Students",
	6: "Academics from other institutions",
}

var researchTeamMembers = map[int]string{
	1: "Government",
	2: "Business or industry",
	3: "Civil society organisations",
	4: "Community members",
	5: "Undergraduate students",
	6: "Postgraduate students",
	// Code 7 drives the suspect-answer flag; keep it stable.
	models.OtherAcademicsCode: "Other academics",
}

var studentTypes = map[int]string{
	1: "Undergraduate",
	2: "Honours",
	3: "Masters",
	4: "Doctoral",
}

var studentNature = map[int]string{
	1: "Coursework assignments",
	2: "Internships or service learning",
	3: "Research projects",
	4: "Volunteering",
}

var outputTypes = map[int]string{
	1: "Peer-reviewed journal article",
	2: "Book or book chapter",
	3: "Conference paper",
	4: "Technical or policy report",
	5: "Popular article or media",
	6: "Other",
}

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	seed := func(table string, rows []interface{}) {
		for _, row := range rows {
			if err := config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
				log.Fatalf("Failed to seed %s: %v", table, err)
			}
		}
		log.Printf("Seeded %s (%d rows)", table, len(rows))
	}

	var rows []interface{}
	for code, choice := range focusAreas {
		rows = append(rows, &models.FocusArea{Code: code, Choice: choice})
	}
	seed("focus_areas", rows)

	rows = nil
	for code, choice := range advisoryGroupReps {
		rows = append(rows, &models.AdvisoryGroupRep{Code: code, Choice: choice})
	}
	seed("advisory_group_reps", rows)

	rows = nil
	for code, choice := range researchTeamMembers {
		rows = append(rows, &models.ResearchTeamMember{Code: code, Choice: choice})
	}
	seed("research_team_members", rows)

	rows = nil
	for code, choice := range studentTypes {
		rows = append(rows, &models.StudentType{Code: code, Choice: choice})
	}
	seed("student_types", rows)

	rows = nil
	for code, choice := range studentNature {
		rows = append(rows, &models.StudentParticipationNature{Code: code, Choice: choice})
	}
	seed("student_participation_natures", rows)

	rows = nil
	for code, choice := range outputTypes {
		rows = append(rows, &models.ProjectOutputType{Code: code, Choice: choice})
	}
	seed("project_output_types", rows)

	log.Println("Reference data seeding completed!")
}
