package models

import "time"

// Resolution is the evidentiary closure record written when a report reaches
// complete. At most one row exists per report; repeated completions replace
// it in place.
type Resolution struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	ReportID         uint      `gorm:"not null;uniqueIndex" json:"-"`
	DateOfResolution time.Time `gorm:"type:date;not null" json:"date_of_resolution"`
	Image            string    `gorm:"type:varchar(255);not null" json:"image"`
	Remarks          string    `gorm:"type:text;not null" json:"remarks"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"-"`
}
