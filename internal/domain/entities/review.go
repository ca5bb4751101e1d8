package entities

// RestaurantRating is a user's review of a place. There is at most one per
// (UserID, PlaceID); Timestamp is epoch seconds.
type RestaurantRating struct {
	UserID      string  `json:"user_id" db:"user_id"`
	PlaceID     string  `json:"place_id" db:"place_id"`
	Rating      float64 `json:"rating" db:"rating"`
	Description string  `json:"description" db:"description"`
	Timestamp   int64   `json:"timestamp" db:"timestamp"`
}
