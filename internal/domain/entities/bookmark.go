package entities

// Bookmark marks a place as a user's favourite.
type Bookmark struct {
	UserID    string `json:"user_id" db:"user_id"`
	PlaceID   string `json:"place_id" db:"place_id"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}
