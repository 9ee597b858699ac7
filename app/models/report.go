package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Category is the closed set of issue categories the classifier may assign.
type Category string

const (
	CategoryPothole         Category = "Pothole"
	CategoryStreetlight     Category = "Streetlight"
	CategoryGarbage         Category = "Garbage"
	CategoryWaterStagnation Category = "Water Stagnation"
	CategoryOther           Category = "Other"
)

var Categories = []Category{
	CategoryPothole,
	CategoryStreetlight,
	CategoryGarbage,
	CategoryWaterStagnation,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Department is the closed set of responsible departments.
type Department string

const (
	DepartmentWaterSanitation  Department = "Department of Drinking Water and Sanitation"
	DepartmentRuralWorks       Department = "Department of Rural Works"
	DepartmentRoadConstruction Department = "Department of Road Construction"
	DepartmentEnergy           Department = "Department of Energy"
	DepartmentHealth           Department = "Department of Health, Medical Education & Family Welfare"
)

var Departments = []Department{
	DepartmentWaterSanitation,
	DepartmentRuralWorks,
	DepartmentRoadConstruction,
	DepartmentEnergy,
	DepartmentHealth,
}

func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// Status is the administrative lifecycle tag of a report.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusProgress  Status = "progress"
	StatusComplete  Status = "complete"
	StatusRejected  Status = "rejected"
)

var Statuses = []Status{StatusSubmitted, StatusProgress, StatusComplete, StatusRejected}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Open reports are the only valid merge targets for the duplicate matcher.
func (s Status) Open() bool {
	return s == StatusSubmitted || s == StatusProgress
}

// Report is the canonical, deduplicated record of one real-world civic issue.
// Location and classification never change after creation; only Count and
// Status mutate.
type Report struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	DateOfReport time.Time   `gorm:"type:date;not null" json:"date_of_report"`
	Category     Category    `gorm:"type:varchar(50);not null" json:"category"`
	Department   Department  `gorm:"type:varchar(120)" json:"department"`
	Description  string      `gorm:"type:text" json:"description"`
	Latitude     float64     `gorm:"not null" json:"lat" validate:"gte=-90,lte=90"`
	Longitude    float64     `gorm:"not null" json:"lon" validate:"gte=-180,lte=180"`
	Count        int         `gorm:"not null;default:1" json:"count"`
	Status       Status      `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status"`
	Submissions  []Submission `gorm:"foreignKey:ReportID" json:"-"`
	Resolution   *Resolution  `gorm:"foreignKey:ReportID" json:"-"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"-"`
}

// Validate checks the coordinate ranges and the closed enumerations. The
// enums are checked by hand because two of the values contain spaces, which
// the oneof tag cannot express cleanly.
func (r *Report) Validate() error {
	v := validator.New()
	if err := v.Struct(r); err != nil {
		return err
	}
	if !r.Category.Valid() {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	if r.Department != "" && !r.Department.Valid() {
		return fmt.Errorf("unknown department %q", r.Department)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	return nil
}
