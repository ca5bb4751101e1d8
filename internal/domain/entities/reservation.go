package entities

import "time"

// Reservation books a table for ReservationPax people at ReservationTimestamp
// (epoch seconds). A user may hold several reservations at the same place.
type Reservation struct {
	UserID               string `json:"user_id" db:"user_id"`
	PlaceID              string `json:"place_id" db:"place_id"`
	ReservationTimestamp int64  `json:"reservation_timestamp" db:"reservation_timestamp"`
	ReservationPax       int64  `json:"reservation_pax" db:"reservation_pax"`
}

// IsValidAt reports whether the reservation is still ahead of now.
func (r Reservation) IsValidAt(now time.Time) bool {
	return r.ReservationTimestamp > now.Unix()
}
