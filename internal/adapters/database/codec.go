package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/EatWhereLa/eat-where-la-backend-server/internal/domain/entities"
	"github.com/EatWhereLa/eat-where-la-backend-server/pkg/config"
)

// CalendarLayout is the at-rest layout of calendar timestamps.
const CalendarLayout = "2006-01-02 15:04:05"

// TimestampFormat selects how timestamps are stored. A deployment uses one.
type TimestampFormat string

const (
	// TimestampEpoch stores epoch seconds in a 32-bit INTEGER column.
	TimestampEpoch TimestampFormat = config.TimestampFormatEpoch
	// TimestampCalendar stores UTC "YYYY-MM-DD HH:MM:SS" in a TIMESTAMP column.
	TimestampCalendar TimestampFormat = config.TimestampFormatCalendar
)

var (
	restaurantColumns  = []interface{}{"place_id", "name", "photo_height", "photo_width", "photo_reference", "rating", "vicinity", "lat", "lng"}
	reviewColumns      = []interface{}{"user_id", "place_id", "rating", "description", "timestamp"}
	reservationColumns = []interface{}{"user_id", "place_id", "reservation_timestamp", "reservation_pax"}
	voteColumns        = []interface{}{"user_ids", "voted_places", "vote_timestamp"}
	bookmarkColumns    = []interface{}{"user_id", "place_id", "created_at"}
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// RowCodec maps rows to entities and entities to statement values.
type RowCodec struct {
	format TimestampFormat
}

// NewRowCodec creates a codec for the given timestamp format.
func NewRowCodec(format string) (*RowCodec, error) {
	switch f := TimestampFormat(strings.ToLower(strings.TrimSpace(format))); f {
	case TimestampEpoch, TimestampCalendar:
		return &RowCodec{format: f}, nil
	case "":
		return &RowCodec{format: TimestampEpoch}, nil
	default:
		return nil, fmt.Errorf("unsupported timestamp format %q", format)
	}
}

// Format returns the codec's timestamp format.
func (c *RowCodec) Format() TimestampFormat {
	return c.format
}

// TimestampColumnType returns the SQL type used for timestamp columns.
func (c *RowCodec) TimestampColumnType() string {
	if c.format == TimestampCalendar {
		return "TIMESTAMP"
	}
	return "INTEGER"
}

// EncodeTimestamp converts epoch seconds into the at-rest value.
func (c *RowCodec) EncodeTimestamp(epoch int64) (interface{}, error) {
	if c.format == TimestampCalendar {
		return time.Unix(epoch, 0).UTC().Format(CalendarLayout), nil
	}
	n, err := narrowInt32("timestamp", epoch)
	if err != nil {
		return nil, err
	}
	return int64(n), nil
}

// DecodeTimestamp converts a scanned timestamp into epoch seconds. A value in
// the other representation is a mismatch, not something to coerce.
func (c *RowCodec) DecodeTimestamp(raw interface{}) (int64, error) {
	if c.format == TimestampCalendar {
		switch v := raw.(type) {
		case time.Time:
			return v.Unix(), nil
		case string:
			return parseCalendar(v)
		case []byte:
			return parseCalendar(string(v))
		}
		return 0, fmt.Errorf("timestamp representation mismatch: expected calendar, got %T", raw)
	}

	switch v := raw.(type) {
	case int64:
		return widenInt32("timestamp", v)
	case int32:
		return int64(v), nil
	case int:
		return widenInt32("timestamp", int64(v))
	}
	return 0, fmt.Errorf("timestamp representation mismatch: expected epoch, got %T", raw)
}

func parseCalendar(s string) (int64, error) {
	t, err := time.ParseInLocation(CalendarLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return 0, fmt.Errorf("timestamp representation mismatch: %w", err)
	}
	return t.Unix(), nil
}

// widenInt32 checks that a value read from a 32-bit column really fits one.
func widenInt32(field string, v int64) (int64, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%s value %d does not fit a 32-bit column", field, v)
	}
	return v, nil
}

// narrowInt32 converts an in-memory value for a 32-bit column without wrapping.
func narrowInt32(field string, v int64) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%s value %d overflows a 32-bit column", field, v)
	}
	return int32(v), nil
}

// ScanRestaurant reads a row selected with restaurantColumns.
func (c *RowCodec) ScanRestaurant(row rowScanner) (entities.Restaurant, error) {
	var (
		r             entities.Restaurant
		height, width sql.NullInt64
		reference     sql.NullString
		vicinity      sql.NullString
	)
	if err := row.Scan(
		&r.PlaceID,
		&r.Name,
		&height,
		&width,
		&reference,
		&r.Rating,
		&vicinity,
		&r.Geometry.Lat,
		&r.Geometry.Lng,
	); err != nil {
		return entities.Restaurant{}, err
	}

	var err error
	if r.Photos.Height, err = widenInt32("photo_height", height.Int64); err != nil {
		return entities.Restaurant{}, err
	}
	if r.Photos.Width, err = widenInt32("photo_width", width.Int64); err != nil {
		return entities.Restaurant{}, err
	}
	r.Photos.PhotoReference = reference.String
	r.Vicinity = vicinity.String
	return r, nil
}

// RestaurantValues returns insert values in restaurantColumns order.
func (c *RowCodec) RestaurantValues(r entities.Restaurant) (goqu.Vals, error) {
	height, err := narrowInt32("photo_height", r.Photos.Height)
	if err != nil {
		return nil, err
	}
	width, err := narrowInt32("photo_width", r.Photos.Width)
	if err != nil {
		return nil, err
	}
	return goqu.Vals{
		r.PlaceID,
		r.Name,
		int64(height),
		int64(width),
		r.Photos.PhotoReference,
		r.Rating,
		r.Vicinity,
		r.Geometry.Lat,
		r.Geometry.Lng,
	}, nil
}

// BookmarkValues returns insert values in bookmarkColumns order.
func (c *RowCodec) BookmarkValues(b entities.Bookmark) (goqu.Vals, error) {
	createdAt, err := c.EncodeTimestamp(b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return goqu.Vals{b.UserID, b.PlaceID, createdAt}, nil
}

// ScanReview reads a row selected with reviewColumns.
func (c *RowCodec) ScanReview(row rowScanner) (entities.RestaurantRating, error) {
	var (
		review      entities.RestaurantRating
		description sql.NullString
		ts          interface{}
	)
	if err := row.Scan(&review.UserID, &review.PlaceID, &review.Rating, &description, &ts); err != nil {
		return entities.RestaurantRating{}, err
	}
	epoch, err := c.DecodeTimestamp(ts)
	if err != nil {
		return entities.RestaurantRating{}, err
	}
	review.Description = description.String
	review.Timestamp = epoch
	return review, nil
}

// ReviewValues returns insert values in reviewColumns order.
func (c *RowCodec) ReviewValues(review entities.RestaurantRating) (goqu.Vals, error) {
	ts, err := c.EncodeTimestamp(review.Timestamp)
	if err != nil {
		return nil, err
	}
	return goqu.Vals{review.UserID, review.PlaceID, review.Rating, review.Description, ts}, nil
}

// ReviewUpdate returns the mutable review columns.
func (c *RowCodec) ReviewUpdate(review entities.RestaurantRating) (goqu.Record, error) {
	ts, err := c.EncodeTimestamp(review.Timestamp)
	if err != nil {
		return nil, err
	}
	return goqu.Record{
		"rating":      review.Rating,
		"description": review.Description,
		"timestamp":   ts,
	}, nil
}

// ScanReservation reads a row selected with reservationColumns.
func (c *RowCodec) ScanReservation(row rowScanner) (entities.Reservation, error) {
	var (
		reservation entities.Reservation
		ts          interface{}
		pax         int64
	)
	if err := row.Scan(&reservation.UserID, &reservation.PlaceID, &ts, &pax); err != nil {
		return entities.Reservation{}, err
	}
	epoch, err := c.DecodeTimestamp(ts)
	if err != nil {
		return entities.Reservation{}, err
	}
	if reservation.ReservationPax, err = widenInt32("reservation_pax", pax); err != nil {
		return entities.Reservation{}, err
	}
	reservation.ReservationTimestamp = epoch
	return reservation, nil
}

// ReservationValues returns insert values in reservationColumns order.
func (c *RowCodec) ReservationValues(reservation entities.Reservation) (goqu.Vals, error) {
	ts, err := c.EncodeTimestamp(reservation.ReservationTimestamp)
	if err != nil {
		return nil, err
	}
	pax, err := narrowInt32("reservation_pax", reservation.ReservationPax)
	if err != nil {
		return nil, err
	}
	return goqu.Vals{reservation.UserID, reservation.PlaceID, ts, int64(pax)}, nil
}

// ScanVoteHistory reads a row selected with voteColumns.
func (c *RowCodec) ScanVoteHistory(row rowScanner) (entities.VoteHistory, error) {
	var (
		history entities.VoteHistory
		places  []byte
		ts      interface{}
	)
	if err := row.Scan(pq.Array(&history.UserIDs), &places, &ts); err != nil {
		return entities.VoteHistory{}, err
	}
	epoch, err := c.DecodeTimestamp(ts)
	if err != nil {
		return entities.VoteHistory{}, err
	}
	history.VoteTimestamp = epoch

	history.VotedPlaces = []json.RawMessage{}
	if len(places) > 0 {
		if err := json.Unmarshal(places, &history.VotedPlaces); err != nil {
			return entities.VoteHistory{}, fmt.Errorf("voted_places is not a JSON array: %w", err)
		}
		if history.VotedPlaces == nil {
			history.VotedPlaces = []json.RawMessage{}
		}
	}
	if history.UserIDs == nil {
		history.UserIDs = []string{}
	}
	return history, nil
}

// VoteValues returns insert values in voteColumns order. voted_places is sent
// as JSON text so the driver does not treat it as bytea.
func (c *RowCodec) VoteValues(history entities.VoteHistory) (goqu.Vals, error) {
	ts, err := c.EncodeTimestamp(history.VoteTimestamp)
	if err != nil {
		return nil, err
	}
	places := history.VotedPlaces
	if places == nil {
		places = []json.RawMessage{}
	}
	payload, err := json.Marshal(places)
	if err != nil {
		return nil, fmt.Errorf("voted_places: %w", err)
	}
	userIDs := history.UserIDs
	if userIDs == nil {
		userIDs = []string{}
	}
	return goqu.Vals{pq.Array(userIDs), string(payload), ts}, nil
}
