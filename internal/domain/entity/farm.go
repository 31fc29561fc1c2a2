package entity

import "time"

// FarmStatus moderation state of a listing.
type FarmStatus string

const (
	FarmDraft           FarmStatus = "draft"
	FarmPendingApproval FarmStatus = "pending_approval"
	FarmApproved        FarmStatus = "approved"
	FarmSuspended       FarmStatus = "suspended"
	FarmDeleted         FarmStatus = "deleted"
)

// Valid reports whether s is a known listing status.
func (s FarmStatus) Valid() bool {
	switch s {
	case FarmDraft, FarmPendingApproval, FarmApproved, FarmSuspended, FarmDeleted:
		return true
	}
	return false
}

// Farm is a directory listing owned by one account.
// Products is a free-text comma separated tag string; it is not normalised on write.
type Farm struct {
	ID          string
	Name        string
	Description string
	Location    string
	Products    string
	Latitude    *float64
	Longitude   *float64
	OwnerID     *string // nil only for legacy rows without an owner
	Status      FarmStatus
	AdminNotes  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Coordinates returns the point when both latitude and longitude are set.
func (f *Farm) Coordinates() (lat, lon float64, ok bool) {
	if f.Latitude == nil || f.Longitude == nil {
		return 0, 0, false
	}
	return *f.Latitude, *f.Longitude, true
}

// IsOwnedBy reports whether userID owns the listing.
func (f *Farm) IsOwnedBy(userID string) bool {
	return f.OwnerID != nil && userID != "" && *f.OwnerID == userID
}

// FarmWithOwner is a listing joined with its owner's display name (admin view).
type FarmWithOwner struct {
	Farm
	OwnerName string // empty when the owner is missing
}
