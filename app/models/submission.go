package models

import "time"

// Submission is one citizen contribution folded into a report. Rows are
// append-only; a report's Count must always equal the number of submissions
// referencing it.
type Submission struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	User      string    `gorm:"type:varchar(80);not null;index" json:"-"`
	ReportID  uint      `gorm:"not null;index" json:"-"`
	ImageName string    `gorm:"type:varchar(255);not null" json:"image"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}
