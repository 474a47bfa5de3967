package model

import "time"

// Roles
const (
	RoleAdmin     = "ADMIN"
	RoleUnitAdmin = "UNIT_ADMIN"
	RoleUser      = "USER"
)

// User account table (users)
type User struct {
	ID                              string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email                           string     `gorm:"type:varchar(255);not null;uniqueIndex"          json:"email"`
	PasswordHash                    string     `gorm:"type:varchar(255);not null"                      json:"-"`
	Role                            string     `gorm:"type:varchar(20);not null;default:'USER'"        json:"role"`
	IsActive                        bool       `gorm:"not null;default:true"                           json:"isActive"`
	IsEmailVerified                 bool       `gorm:"not null;default:false"                          json:"isEmailVerified"`
	EmailVerificationToken          *string    `gorm:"type:varchar(64)"                                json:"-"`
	EmailVerificationTokenExpiresAt *time.Time `                                                       json:"-"`
	PasswordResetToken              *string    `gorm:"type:varchar(64)"                                json:"-"`
	PasswordResetTokenExpiresAt     *time.Time `                                                       json:"-"`
	Timestamps

	Profile *OfficerProfile `gorm:"foreignKey:UserID;references:ID" json:"profile,omitempty"`
}

// TableName table name
func (User) TableName() string { return "users" }

// IsPrivileged reports whether the role may use the admin area.
func IsPrivileged(role string) bool {
	return role == RoleAdmin || role == RoleUnitAdmin
}
