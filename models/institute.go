package models

// Institute represents the institutes table
type Institute struct {
	InstituteID   int     `gorm:"primaryKey;column:institute_id" json:"institute_id"`
	Name          string  `gorm:"column:name" json:"name"`
	LogoPath      *string `gorm:"column:logo_path" json:"logo_path,omitempty"`
	OrgLevel1Name string  `gorm:"column:org_level_1_name" json:"org_level_1_name"`
	OrgLevel2Name *string `gorm:"column:org_level_2_name" json:"org_level_2_name,omitempty"`
	OrgLevel3Name *string `gorm:"column:org_level_3_name" json:"org_level_3_name,omitempty"`

	// Relations
	StrategicObjectives []StrategicObjective `gorm:"foreignKey:InstituteID" json:"strategic_objectives,omitempty"`
	ReportingPeriods    []ReportingPeriod    `gorm:"foreignKey:InstituteID" json:"reporting_periods,omitempty"`
}

// StrategicObjective is a per-institute statement answered on each project.
// is_true marks whether the statement is a correct one; only institute admins
// and superusers ever see that flag.
type StrategicObjective struct {
	ObjectiveID int    `gorm:"primaryKey;column:objective_id" json:"objective_id"`
	InstituteID int    `gorm:"column:institute_id" json:"institute_id"`
	Statement   string `gorm:"column:statement" json:"statement"`
	IsTrue      bool   `gorm:"column:is_true" json:"is_true"`
}

// OrgLevel1 represents the top organisational unit of an institute.
// Levels 2 and 3 are optional per institute; their display names come from
// the institute record.
type OrgLevel1 struct {
	OrgLevel1ID int    `gorm:"primaryKey;column:org_level_1_id" json:"org_level_1_id"`
	InstituteID int    `gorm:"column:institute_id" json:"institute_id"`
	Name        string `gorm:"column:name" json:"name"`
}

type OrgLevel2 struct {
	OrgLevel2ID int    `gorm:"primaryKey;column:org_level_2_id" json:"org_level_2_id"`
	InstituteID int    `gorm:"column:institute_id" json:"institute_id"`
	ParentID    int    `gorm:"column:parent_id" json:"parent_id"`
	Name        string `gorm:"column:name" json:"name"`
}

type OrgLevel3 struct {
	OrgLevel3ID int    `gorm:"primaryKey;column:org_level_3_id" json:"org_level_3_id"`
	InstituteID int    `gorm:"column:institute_id" json:"institute_id"`
	ParentID    int    `gorm:"column:parent_id" json:"parent_id"`
	Name        string `gorm:"column:name" json:"name"`
}

// TableName overrides
func (Institute) TableName() string {
	return "institutes"
}

func (StrategicObjective) TableName() string {
	return "strategic_objectives"
}

func (OrgLevel1) TableName() string {
	return "org_level_1"
}

func (OrgLevel2) TableName() string {
	return "org_level_2"
}

func (OrgLevel3) TableName() string {
	return "org_level_3"
}

// OrgLevels returns the (level number, display name) pairs configured for the
// institute, for use as form choices. Levels 2 and 3 are optional.
func (i *Institute) OrgLevels() [][2]string {
	levels := [][2]string{{"1", i.OrgLevel1Name}}
	if i.OrgLevel2Name != nil && *i.OrgLevel2Name != "" {
		levels = append(levels, [2]string{"2", *i.OrgLevel2Name})
	}
	if i.OrgLevel3Name != nil && *i.OrgLevel3Name != "" {
		levels = append(levels, [2]string{"3", *i.OrgLevel3Name})
	}
	return levels
}
