package request

import "time"

type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
	TripMultiCity TripType = "multi-city"
)

func (t TripType) Valid() bool {
	switch t {
	case TripOneWay, TripRoundTrip, TripMultiCity:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further status transitions are allowed.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

type Request struct {
	ID              int64     `json:"id"`
	RequesterID     int64     `json:"requester_id"`
	TripType        TripType  `json:"trip_type"`
	OriginCity      string    `json:"origin_city"`
	DestinationCity string    `json:"destination_city"`
	DepartureDate   time.Time `json:"departure_date"`
	Reason          string    `json:"reason"`
	AccommodationID *string   `json:"accommodation_id"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
