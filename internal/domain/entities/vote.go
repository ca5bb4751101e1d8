package entities

import "encoding/json"

// VoteHistory records one voting session. VotedPlaces are opaque documents in
// the external places API shape and are stored as-is.
type VoteHistory struct {
	UserIDs       []string          `json:"user_ids" db:"user_ids"`
	VoteTimestamp int64             `json:"vote_timestamp" db:"vote_timestamp"`
	VotedPlaces   []json.RawMessage `json:"voted_places" db:"voted_places"`
}

// HasParticipant reports whether userID took part in the session.
func (v VoteHistory) HasParticipant(userID string) bool {
	for _, id := range v.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
