package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AuthResponse is the body returned by POST /auth/login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// FlightsPage is one page of GET /flights/.
type FlightsPage struct {
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Flights    []FlightRecord `json:"flights"`
}

// FlightRecord is a flight as sent by the server. No field is required.
type FlightRecord map[string]any

const (
	PlaceholderMissing  = "N/A"
	PlaceholderNull     = "NULL"
	PlaceholderUnparked = "Not assigned"
)

// Field returns the value for key formatted for display, or fallback when
// the key is absent or null.
func (f FlightRecord) Field(key, fallback string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return fallback
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// String returns the value for key when it is present and a string.
func (f FlightRecord) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

// Float returns the value for key when it is present and numeric.
func (f FlightRecord) Float(key string) (float64, bool) {
	switch val := f[key].(type) {
	case json.Number:
		n, err := val.Float64()
		return n, err == nil
	case float64:
		return val, true
	case int:
		return float64(val), true
	}
	return 0, false
}
