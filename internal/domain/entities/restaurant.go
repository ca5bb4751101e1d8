package entities

// Restaurant is the canonical record for a place returned by the external
// places search and cached in the places table.
type Restaurant struct {
	PlaceID  string   `json:"place_id" db:"place_id"`
	Name     string   `json:"name" db:"name"`
	Photos   Photo    `json:"photos"`
	Rating   float64  `json:"rating" db:"rating"`
	Vicinity string   `json:"vicinity" db:"vicinity"`
	Geometry Location `json:"geometry"`
}

// Photo is the single representative photo kept for a restaurant.
type Photo struct {
	Height         int64  `json:"height" db:"photo_height"`
	Width          int64  `json:"width" db:"photo_width"`
	PhotoReference string `json:"photo_reference" db:"photo_reference"`
}

// Location holds a restaurant's coordinates.
type Location struct {
	Lat float64 `json:"lat" db:"lat"`
	Lng float64 `json:"lng" db:"lng"`
}

// RestaurantImage is the resolved URL of a place photo.
type RestaurantImage struct {
	ImageURL string `json:"image_url"`
}
