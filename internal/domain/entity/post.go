package entity

import "time"

// PostStatus is the listing lifecycle state.
type PostStatus string

const (
	PostDraft   PostStatus = "draft"
	PostActive  PostStatus = "active"
	PostPaused  PostStatus = "paused"
	PostAdopted PostStatus = "adopted"
	PostRemoved PostStatus = "removed"
)

// Urgency expresses how quickly a pet needs a home.
type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

// Pet is the animal described by a listing, embedded in Post.
type Pet struct {
	Name          string   `json:"name"`
	Species       string   `json:"species"` // dog, cat, bird, rabbit, other
	Breed         string   `json:"breed,omitempty"`
	AgeValue      int      `json:"age_value"`
	AgeUnit       string   `json:"age_unit"` // months, years
	Gender        string   `json:"gender"`   // male, female, unknown
	Size          string   `json:"size"`     // small, medium, large, extra-large
	Color         string   `json:"color"`
	IsVaccinated  bool     `json:"is_vaccinated"`
	IsNeutered    bool     `json:"is_neutered"`
	HealthStatus  string   `json:"health_status"` // excellent, good, fair, needs-attention
	Temperament   []string `json:"temperament,omitempty"`
	GoodWithKids  bool     `json:"good_with_children"`
	GoodWithDogs  bool     `json:"good_with_dogs"`
	GoodWithCats  bool     `json:"good_with_cats"`
	Energy        string   `json:"energy"` // low, moderate, high
	Photos        []string `json:"photos"`
}

// Post is a pet adoption listing.
type Post struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Pet         Pet        `json:"pet"`
	Location    Location   `json:"location"`
	AdoptionFee float64    `json:"adoption_fee"`
	Status      PostStatus `json:"status"`
	Urgency     Urgency    `json:"urgency"`
	Views       int64      `json:"views"`
	// FavoriteCount mirrors the stored set of user IDs that saved the
	// listing; the set itself never leaves the store layer.
	FavoriteCount int      `json:"favorite_count"`
	Tags          []string `json:"tags,omitempty"`

	IsApproved      bool   `json:"is_approved"`
	ApprovedBy      string `json:"approved_by,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Visible reports whether the listing may be shown publicly.
func (p *Post) Visible() bool {
	return p.IsApproved && p.Status == PostActive
}

// PostFilter narrows public listing queries. Zero values mean "no filter".
type PostFilter struct {
	OwnerID      string
	FavoritedBy  string
	Status       PostStatus
	ApprovedOnly bool
	Species      string
	Size         string
	Gender       string
	Energy       string
	City         string
	State        string
	Urgency      Urgency
	MinFee       *float64
	MaxFee       *float64
	IsVaccinated *bool
	IsNeutered   *bool

	Page     int
	Limit    int
	SortBy   string // created_at, adoption_fee, views
	SortDesc bool
}

// Pagination summarizes a paged result set.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
}

// NewPagination derives paging metadata from a total count.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}
