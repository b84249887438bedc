package employee

type EmployeeResponse struct {
	ID              string  `json:"id"`
	ExternalID      string  `json:"external_id"`
	RosterNumber    *string `json:"roster_number,omitempty"`
	Surname         string  `json:"surname"`
	GivenName       string  `json:"given_name"`
	Department      *string `json:"department,omitempty"`
	TotalDaysWorked int     `json:"total_days_worked"`
	TotalHours      float64 `json:"total_hours"`
	DaysWithErrors  int     `json:"days_with_errors"`
}
