package domain

import (
	"encoding/json"
	"fmt"
)

// LatLng is a WGS-84 coordinate. It encodes as a `[lat, lng]` JSON array.
type LatLng struct {
	Lat float64
	Lng float64
}

// IsZero reports whether the coordinate is unset.
func (p LatLng) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

func (p LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lng})
}

func (p *LatLng) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = LatLng{}
		return nil
	}
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode coordinate: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode coordinate: want 2 values, got %d", len(pair))
	}
	p.Lat, p.Lng = pair[0], pair[1]
	return nil
}
