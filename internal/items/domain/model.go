package domain

import "time"

// Item is a shipping request posted by a requester. Field names mirror the
// documents the web client consumes.
type Item struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	UserEmail          string     `json:"userEmail"`
	ItemName           string     `json:"itemName"`
	Description        string     `json:"description"`
	OriginCountry      string     `json:"originCountry"`
	DestinationCountry string     `json:"destinationCountry"`
	Weight             float64    `json:"weight"`
	Size               string     `json:"size"`
	OfferPrice         float64    `json:"offerPrice"`
	Urgency            string     `json:"urgency"`
	Status             Status     `json:"status"`
	AcceptorID         *string    `json:"acceptorId,omitempty"`
	AcceptorEmail      *string    `json:"acceptorEmail,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	AcceptedAt         *time.Time `json:"acceptedAt,omitempty"`
	DeliveredAt        *time.Time `json:"deliveredAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
}

// Size and urgency enumerations.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"

	UrgencyStandard = "standard"
	UrgencyExpress  = "express"
	UrgencyUrgent   = "urgent"
)

func ValidSize(s string) bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

func ValidUrgency(u string) bool {
	return u == UrgencyStandard || u == UrgencyExpress || u == UrgencyUrgent
}

// CreateItemRequest carries the requester-supplied fields of a new item.
type CreateItemRequest struct {
	ItemName           string
	Description        string
	OriginCountry      string
	DestinationCountry string
	Weight             float64
	Size               string
	OfferPrice         float64
	Urgency            string
}

// BrowseFilters are the advisory client-side filters applied over the set
// of open items. Zero values mean "no constraint".
type BrowseFilters struct {
	OriginCountry      string
	DestinationCountry string
	MaxWeight          float64
}

// FilterItems applies f as a pure, order-preserving predicate. It never
// consults the caller's identity; access control happens before fetching.
func FilterItems(items []Item, f BrowseFilters) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.OriginCountry != "" && it.OriginCountry != f.OriginCountry {
			continue
		}
		if f.DestinationCountry != "" && it.DestinationCountry != f.DestinationCountry {
			continue
		}
		if f.MaxWeight > 0 && it.Weight > f.MaxWeight {
			continue
		}
		out = append(out, it)
	}
	return out
}
