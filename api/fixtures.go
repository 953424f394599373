package api

import (
	"encoding/json"

	"github.com/vainnor/airlab-probe/types"
)

// SampleFlights returns the flights served by the mock-server command. The
// last one is missing its position and stand so placeholders show up.
func SampleFlights() []types.FlightRecord {
	return []types.FlightRecord{
		{
			"icao24":              "3c6444",
			"callsign":            "DLH4AB",
			"aircraft_type":       "A320",
			"flight_type":         "arrival",
			"status":              "active",
			"latitude":            json.Number("48.3538"),
			"longitude":           json.Number("11.7861"),
			"altitude":            json.Number("10668"),
			"heading":             json.Number("254.3"),
			"speed":               json.Number("231.5"),
			"origin":              "EDDM",
			"destination":         "LFPG",
			"assigned_poste_code": "P12",
		},
		{
			"icao24":        "4ca7b5",
			"callsign":      "RYR82QW",
			"aircraft_type": "B738",
			"flight_type":   "departure",
			"status":        "scheduled",
			"latitude":      json.Number("41.2971"),
			"longitude":     json.Number("2.0785"),
			"altitude":      json.Number("0"),
			"heading":       json.Number("70"),
			"speed":         json.Number("0"),
			"origin":        "LEBL",
			"destination":   "EIDW",
		},
		{
			"icao24":   "a1b2c3",
			"callsign": "AFR1234",
			"status":   "landed",
		},
	}
}
