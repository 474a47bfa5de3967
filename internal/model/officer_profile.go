package model

import (
	"slices"
	"time"

	"github.com/lib/pq"
)

// Departments
const (
	DepartmentPropagandaEducation = "PROPAGANDA_EDUCATION"
	DepartmentOrganization        = "ORGANIZATION"
	DepartmentPoliciesLaws        = "POLICIES_LAWS"
	DepartmentOffice              = "OFFICE"
	DepartmentWomenAffairs        = "WOMEN_AFFAIRS"
)

// Departments lists every department in display order.
var Departments = []string{
	DepartmentPropagandaEducation,
	DepartmentOrganization,
	DepartmentPoliciesLaws,
	DepartmentOffice,
	DepartmentWomenAffairs,
}

// Union positions
const (
	PositionPresident                = "PRESIDENT"
	PositionVicePresident            = "VICE_PRESIDENT"
	PositionExecutiveCommitteeMember = "EXECUTIVE_COMMITTEE_MEMBER"
	PositionBoardMember              = "BOARD_MEMBER"
	PositionSpecializedOfficer       = "SPECIALIZED_OFFICER"
)

// UnionPositions lists every position, most senior first.
var UnionPositions = []string{
	PositionPresident,
	PositionVicePresident,
	PositionExecutiveCommitteeMember,
	PositionBoardMember,
	PositionSpecializedOfficer,
}

// Genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Work statuses
const (
	WorkStatusActive      = "ACTIVE"
	WorkStatusTransferred = "TRANSFERRED"
	WorkStatusRetired     = "RETIRED"
)

// OfficerTags are the labels the admin UI offers for classification.
var OfficerTags = []string{
	"Cán bộ nguồn",
	"Chuẩn bị nghỉ hưu",
	"Cán bộ nữ",
	"Cán bộ trẻ",
}

// OfficerProfile HR record, one per user (officer_profiles)
type OfficerProfile struct {
	ID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        string         `gorm:"type:uuid;not null;uniqueIndex"                 json:"userId"`
	EmployeeID    string         `gorm:"type:varchar(50);not null;uniqueIndex"          json:"employeeId"`
	FullName      string         `gorm:"type:varchar(255);not null"                     json:"fullName"`
	DateOfBirth   *time.Time     `gorm:"type:date"                                      json:"dateOfBirth"`
	Gender        string         `gorm:"type:varchar(10);not null;default:'Male'"       json:"gender"`
	NationalID    *string        `gorm:"type:varchar(20);uniqueIndex"                   json:"nationalId"`
	PhoneNumber   *string        `gorm:"type:varchar(20)"                               json:"phoneNumber"`
	PersonalEmail *string        `gorm:"type:varchar(255)"                              json:"personalEmail"`
	Address       *string        `gorm:"type:text"                                      json:"address"`
	UnionPosition string         `gorm:"type:varchar(40);not null"                      json:"unionPosition"`
	Department    string         `gorm:"type:varchar(40);not null"                      json:"department"`
	JoinDate      time.Time      `gorm:"type:date;not null;default:CURRENT_DATE"        json:"joinDate"`
	IsPartyMember bool           `gorm:"not null;default:false"                         json:"isPartyMember"`
	UnitName      *string        `gorm:"type:varchar(255)"                              json:"unitName"`
	WorkStatus    string         `gorm:"type:varchar(20);not null;default:'ACTIVE'"     json:"workStatus"`
	Education     *string        `gorm:"type:text"                                      json:"education"`
	Experience    *string        `gorm:"type:text"                                      json:"experience"`
	Skills        *string        `gorm:"type:text"                                      json:"skills"`
	Achievements  *string        `gorm:"type:text"                                      json:"achievements"`
	Tags          pq.StringArray `gorm:"type:text[];not null;default:'{}'"              json:"tags"`
	Timestamps
}

// TableName table name
func (OfficerProfile) TableName() string { return "officer_profiles" }

// IsValidDepartment reports whether d is a known department.
func IsValidDepartment(d string) bool { return slices.Contains(Departments, d) }

// IsValidUnionPosition reports whether p is a known union position.
func IsValidUnionPosition(p string) bool { return slices.Contains(UnionPositions, p) }

