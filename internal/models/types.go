package models

import (
	"encoding/json"
	"fmt"
)

// BuoyStatus is the parsed response of a /buoy/{id}/details request. It is
// produced fresh on every request and never cached: the Series list is the
// only discovery mechanism for which variable names a buoy accepts, and it
// can change between calls.
type BuoyStatus struct {
	BuoyID       int      `json:"buoy_id"`
	LastUpdated  int64    `json:"last_updated"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Battery      float64  `json:"battery"`
	SystemStatus string   `json:"system_status"`
	Series       []string `json:"series"`
}

// SeriesPoint is one observation of one named variable. The service encodes
// points as two-element [time, value] arrays.
type SeriesPoint struct {
	Time  int64
	Value float64
}

func (p *SeriesPoint) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("series point has %d elements, want 2", len(pair))
	}
	p.Time = int64(pair[0])
	p.Value = pair[1]
	return nil
}

func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(p.Time), p.Value})
}

// AuthResponse is the body of a successful login.
type AuthResponse struct {
	Token string `json:"token"`
}

// UserResponse lists the buoy ids visible to the authenticated account.
type UserResponse struct {
	Buoys []int `json:"buoys"`
}

// ReportsResponse wraps the historical payload of /buoy/{id}/reports.
// The double nesting is how the service ships it.
type ReportsResponse struct {
	Series struct {
		Series map[string][]SeriesPoint `json:"series"`
	} `json:"series"`
}
