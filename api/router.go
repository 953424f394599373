package api

import (
	"github.com/gorilla/mux"
)

// NewRouter builds a stand-in for the UbuntuAirLab API under /api/v1.
func NewRouter(backend *Backend) *mux.Router {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/auth/login", backend.Login).Methods("POST")

	// Everything else needs a bearer token
	flights := v1.PathPrefix("/flights").Subrouter()
	flights.Use(backend.RequireBearer)
	flights.HandleFunc("/", backend.ListFlights).Methods("GET")
	flights.HandleFunc("/{icao24}", backend.GetFlight).Methods("GET")

	return r
}
