package models

// Admin holds the identity-provider ids that are allowed to manage report
// lifecycles. Membership is the only admin attribute the system keeps.
type Admin struct {
	ID string `gorm:"type:varchar(80);primaryKey" json:"id"`
}
