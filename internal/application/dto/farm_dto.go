package dto

import "time"

// ListFarmsQuery public directory parameters, already parsed by the handler.
// Lat and Lon only form an origin when both are set.
type ListFarmsQuery struct {
	SearchTerm string
	Category   string
	Lat        *float64
	Lon        *float64
	Lang       string
}

// CreateFarmRequest listing submission.
type CreateFarmRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description"`
	Location    string   `json:"location" validate:"required"`
	Products    string   `json:"products" validate:"required"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// CreatedResponse new listings wait for approval.
type CreatedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// FarmResponse public listing. Distance is present only when an origin was
// given and the listing has coordinates.
type FarmResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Products    string    `json:"products"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	OwnerID     *string   `json:"owner_id"`
	Status      string    `json:"status"`
	Distance    *float64  `json:"distance,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdminFarmResponse listing with moderation fields.
type AdminFarmResponse struct {
	FarmResponse
	AdminNotes         string    `json:"admin_notes"`
	OwnerName          string    `json:"owner_name"`
	AllowedTransitions []string  `json:"allowed_transitions"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CategoriesResponse product tag vocabulary.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
