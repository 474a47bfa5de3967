package model

import "time"

// History change types
const (
	ChangeTypeUnit   = "unit"
	ChangeTypeStatus = "status"
)

// Status labels written to history rows
const (
	StatusLabelActive   = "Đang công tác"
	StatusLabelInactive = "Nghỉ"
)

// StatusLabel maps the user's active flag to its history label.
func StatusLabel(active bool) string {
	if active {
		return StatusLabelActive
	}
	return StatusLabelInactive
}

// OfficerHistory audit trail of unit and status changes (officer_history)
// OfficerID references users.id.
type OfficerHistory struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OfficerID  string    `gorm:"type:uuid;not null;index"                       json:"officerId"`
	ChangeType string    `gorm:"type:varchar(10);not null"                      json:"changeType"`
	OldValue   *string   `gorm:"type:varchar(255)"                              json:"oldValue"`
	NewValue   string    `gorm:"type:varchar(255);not null"                     json:"newValue"`
	Note       *string   `gorm:"type:text"                                      json:"note"`
	ChangeDate time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"changeDate"`
}

// TableName table name
func (OfficerHistory) TableName() string { return "officer_history" }
