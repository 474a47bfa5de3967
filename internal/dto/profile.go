package dto

// ProfileFields optional HR fields shared by the profile and officer requests.
// A nil pointer leaves the stored value unchanged.
type ProfileFields struct {
	DateOfBirth   *string `json:"dateOfBirth"   binding:"omitempty,date"`
	Gender        *string `json:"gender"        binding:"omitempty,oneof=Male Female Other"`
	NationalID    *string `json:"nationalId"    binding:"omitempty,max=20"`
	PhoneNumber   *string `json:"phoneNumber"   binding:"omitempty,vnphone"`
	PersonalEmail *string `json:"personalEmail" binding:"omitempty,email,max=255"`
	Address       *string `json:"address"       binding:"omitempty,max=500"`
	UnitName      *string `json:"unitName"      binding:"omitempty,max=255"`
	WorkStatus    *string `json:"workStatus"    binding:"omitempty,oneof=ACTIVE TRANSFERRED RETIRED"`
	JoinDate      *string `json:"joinDate"      binding:"omitempty,date"`
	IsPartyMember *bool   `json:"isPartyMember"`
	Education     *string `json:"education"`
	Experience    *string `json:"experience"`
	Skills        *string `json:"skills"`
	Achievements  *string `json:"achievements"`
}

// CreateProfileRequest POST /api/v1/profile/me
type CreateProfileRequest struct {
	EmployeeID    string `json:"employeeId"    binding:"required,max=50"`
	FullName      string `json:"fullName"      binding:"required,max=255"`
	UnionPosition string `json:"unionPosition" binding:"required,oneof=PRESIDENT VICE_PRESIDENT EXECUTIVE_COMMITTEE_MEMBER BOARD_MEMBER SPECIALIZED_OFFICER"`
	Department    string `json:"department"    binding:"required,oneof=PROPAGANDA_EDUCATION ORGANIZATION POLICIES_LAWS OFFICE WOMEN_AFFAIRS"`
	ProfileFields
}

// UpdateProfileRequest PATCH /api/v1/profile/me
// Department and employee ID are managed by administrators.
type UpdateProfileRequest struct {
	FullName      *string `json:"fullName"      binding:"omitempty,min=1,max=255"`
	UnionPosition *string `json:"unionPosition" binding:"omitempty,oneof=PRESIDENT VICE_PRESIDENT EXECUTIVE_COMMITTEE_MEMBER BOARD_MEMBER SPECIALIZED_OFFICER"`
	ProfileFields
}
