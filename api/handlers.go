package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/vainnor/airlab-probe/types"
	"go.uber.org/zap"
)

const defaultPageLimit = 100

// Backend holds the accounts and flights served by the mock API.
type Backend struct {
	Username string
	Password string
	Flights  []types.FlightRecord
	Logger   *zap.Logger

	tokens *tokenStore
}

func NewBackend(username, password string, flights []types.FlightRecord) *Backend {
	return &Backend{
		Username: username,
		Password: password,
		Flights:  flights,
		Logger:   zap.NewNop(),
		tokens:   newTokenStore(),
	}
}

func (b *Backend) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		b.writeDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		b.writeDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}
	if username != b.Username || password != b.Password {
		b.writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := b.tokens.issue()
	if err != nil {
		b.Logger.Error("Error generating token", zap.Error(err))
		b.writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	b.writeJSON(w, http.StatusOK, types.AuthResponse{AccessToken: token, TokenType: "bearer"})
}

func (b *Backend) ListFlights(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	skip, err := intParam(query.Get("skip"), 0)
	if err != nil || skip < 0 {
		b.writeDetail(w, http.StatusUnprocessableEntity, "skip must be a non-negative integer")
		return
	}
	limit, err := intParam(query.Get("limit"), defaultPageLimit)
	if err != nil || limit < 1 {
		b.writeDetail(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
		return
	}

	status := query.Get("status")
	flightType := query.Get("flight_type")

	matched := make([]types.FlightRecord, 0, len(b.Flights))
	for _, flight := range b.Flights {
		if status != "" && flight.Field("status", "") != status {
			continue
		}
		if flightType != "" && flight.Field("flight_type", "") != flightType {
			continue
		}
		matched = append(matched, flight)
	}

	total := len(matched)
	page := make([]types.FlightRecord, 0, limit)
	if skip < total {
		end := min(skip+limit, total)
		page = append(page, matched[skip:end]...)
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	b.writeJSON(w, http.StatusOK, types.FlightsPage{
		Total:      total,
		Page:       skip/limit + 1,
		TotalPages: totalPages,
		Flights:    page,
	})
}

func (b *Backend) GetFlight(w http.ResponseWriter, r *http.Request) {
	icao24 := mux.Vars(r)["icao24"]

	for _, flight := range b.Flights {
		if flight.Field("icao24", "") == icao24 {
			b.writeJSON(w, http.StatusOK, flight)
			return
		}
	}

	b.writeDetail(w, http.StatusNotFound, "Flight not found")
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (b *Backend) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		b.Logger.Error("Error encoding response", zap.Int("status", status), zap.Error(err))
	}
}

func (b *Backend) writeDetail(w http.ResponseWriter, status int, detail string) {
	b.writeJSON(w, status, map[string]string{"detail": detail})
}
