package domain

import "time"

// Profile is the per-identity user record. The uid comes from the identity
// provider and never changes; email is immutable as far as this service is
// concerned.
type Profile struct {
	UID              string         `json:"uid"`
	Email            string         `json:"email"`
	Name             string         `json:"name,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	Address          string         `json:"address,omitempty"`
	TravelPlans      []TravelPlan   `json:"travelPlans,omitempty"`
	RequestLog       []ItemSummary  `json:"requests,omitempty"`
	DeliveryLog      []ItemSummary  `json:"deliveries,omitempty"`
	ProfileCompleted bool           `json:"profileCompleted"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// ItemSummary is one entry of the request/delivery append logs.
type ItemSummary struct {
	ItemID    string    `json:"itemId"`
	ItemName  string    `json:"itemName"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// TravelPlan is a declared upcoming trip of a passenger.
type TravelPlan struct {
	FromCountry string    `json:"fromCountry"`
	ToCountry   string    `json:"toCountry"`
	TravelDate  time.Time `json:"travelDate"`
}

// UpdateProfileRequest carries a partial profile mutation; nil fields are
// left untouched.
type UpdateProfileRequest struct {
	Name        *string
	Phone       *string
	Address     *string
	TravelPlans []TravelPlan
}
