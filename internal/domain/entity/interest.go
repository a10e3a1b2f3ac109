package entity

import "time"

// InterestStatus is the adoption-application state.
type InterestStatus string

const (
	InterestPending     InterestStatus = "pending"
	InterestShortlisted InterestStatus = "shortlisted"
	InterestApproved    InterestStatus = "approved"
	InterestRejected    InterestStatus = "rejected"
	InterestWithdrawn   InterestStatus = "withdrawn"
)

// interestTransitions defines the legal status graph. Approved, rejected and
// withdrawn are terminal.
var interestTransitions = map[InterestStatus][]InterestStatus{
	InterestPending:     {InterestShortlisted, InterestApproved, InterestRejected, InterestWithdrawn},
	InterestShortlisted: {InterestApproved, InterestRejected, InterestWithdrawn},
}

// CanTransition reports whether from → to is a legal status change.
func CanTransition(from, to InterestStatus) bool {
	for _, s := range interestTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ApplicantInfo is the household profile submitted with an application.
type ApplicantInfo struct {
	Experience   string `json:"experience"`
	LivingSpace  string `json:"living_space"` // apartment, house, farm, other
	HasYard      bool   `json:"has_yard"`
	HasOtherPets bool   `json:"has_other_pets"`
	HasChildren  bool   `json:"has_children"`
	WorkSchedule string `json:"work_schedule"`
}

// TimelineEntry records one action taken on an application.
type TimelineEntry struct {
	Action      string    `json:"action"` // applied, shortlisted, approved, rejected, withdrawn
	PerformedBy string    `json:"performed_by"`
	Message     string    `json:"message,omitempty"`
	Date        time.Time `json:"date"`
}

// Interest is an adoption application for a post.
type Interest struct {
	ID            string          `json:"id"`
	PostID        string          `json:"post_id"`
	ApplicantID   string          `json:"applicant_id"`
	Status        InterestStatus  `json:"status"`
	Message       string          `json:"message"`
	ApplicantInfo ApplicantInfo   `json:"applicant_info"`
	OwnerResponse string          `json:"owner_response,omitempty"`
	Timeline      []TimelineEntry `json:"timeline"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InterestFilter narrows application queries.
type InterestFilter struct {
	PostID      string
	ApplicantID string
	Status      InterestStatus

	Page  int
	Limit int
}
