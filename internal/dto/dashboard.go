package dto

// DashboardStats GET /admin/dashboard/stats
type DashboardStats struct {
	OfficerStats OfficerStats `json:"officerStats"`
	TimeStats    TimeStats    `json:"timeStats"`
	FundStats    FundStats    `json:"fundStats"`
}

// OfficerStats headcount breakdowns
type OfficerStats struct {
	Total        int64       `json:"total"`
	ByStatus     StatusCount `json:"byStatus"`
	ByDepartment []TypeCount `json:"byDepartment"`
	ByPosition   []TypeCount `json:"byPosition"`
}

// StatusCount active vs inactive accounts
type StatusCount struct {
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// TypeCount count per enum value
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// TimeStats time series
type TimeStats struct {
	JoinTrend []LabelCount `json:"joinTrend"`
}

// LabelCount count per YYYY-MM label
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// FundStats union fund figures (VND)
type FundStats struct {
	TotalAmount  int64        `json:"totalAmount"`
	Currency     string       `json:"currency"`
	ByDepartment []TypeAmount `json:"byDepartment"`
	YearlyTrend  []YearAmount `json:"yearlyTrend"`
}

// TypeAmount amount per department
type TypeAmount struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
}

// YearAmount amount per year
type YearAmount struct {
	Year   int   `json:"year"`
	Amount int64 `json:"amount"`
}
