package entity

// Stats is the summary shown on the dashboard. Active is always
// Invitations minus Used; Utilization is a percentage.
type Stats struct {
	Graduates   int     `json:"graduates"`
	Invitations int     `json:"invitations"`
	Used        int     `json:"used"`
	Active      int     `json:"active"`
	Full        int     `json:"full"`
	Half        int     `json:"half"`
	Utilization float64 `json:"utilization"`
}
