package domain

import (
	"slices"
	"time"
)

// Fire is one entry of the fire catalog. Catalogs are read-only and replaced
// wholesale.
type Fire struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Acres     float64 `json:"acres"`
	Year      int     `json:"year,omitempty"`
	Region    string  `json:"region,omitempty"`
	StartDate string  `json:"startDate,omitempty"` // YYYY-MM-DD
}

// Point returns the fire's location.
func (f Fire) Point() LatLng {
	return LatLng{Lat: f.Lat, Lng: f.Lng}
}

// HasPoint reports whether the fire carries a usable location.
func (f Fire) HasPoint() bool {
	return f.Lat != 0 && f.Lng != 0
}

// Started parses StartDate. ok is false when the date is missing or malformed.
func (f Fire) Started() (t time.Time, ok bool) {
	if f.StartDate == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, f.StartDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var fallbackFires = []Fire{
	{
		ID:        "camp-fire-2018",
		Name:      "Camp Fire",
		State:     "CA",
		Lat:       39.73,
		Lng:       -121.6,
		Acres:     153336,
		Year:      2018,
		Region:    "Paradise & Magalia",
		StartDate: "2018-11-08",
	},
	{
		ID:        "dixie-fire-2021",
		Name:      "Dixie Fire",
		State:     "CA",
		Lat:       40.18,
		Lng:       -121.23,
		Acres:     963309,
		Year:      2021,
		Region:    "Feather River Watershed",
		StartDate: "2021-07-13",
	},
	{
		ID:        "bootleg-fire-2021",
		Name:      "Bootleg Fire",
		State:     "OR",
		Lat:       42.56,
		Lng:       -121.5,
		Acres:     413765,
		Year:      2021,
		Region:    "Fremont-Winema NF",
		StartDate: "2021-07-06",
	},
	{
		ID:        "maui-fire-2023",
		Name:      "Lahaina Wildfire",
		State:     "HI",
		Lat:       20.88,
		Lng:       -156.68,
		Acres:     6700,
		Year:      2023,
		Region:    "West Maui",
		StartDate: "2023-08-08",
	},
}

// FallbackFires returns a copy of the bundled catalog used when /api/fires
// is unreachable.
func FallbackFires() []Fire {
	return slices.Clone(fallbackFires)
}

// FindFire looks up a fire by id.
func FindFire(catalog []Fire, id string) (Fire, bool) {
	i := slices.IndexFunc(catalog, func(f Fire) bool { return f.ID == id })
	if i < 0 {
		return Fire{}, false
	}
	return catalog[i], true
}

// FireOrDefault returns the fire with the given id, falling back to the first
// catalog entry and finally to the first bundled fire.
func FireOrDefault(catalog []Fire, id string) Fire {
	if f, ok := FindFire(catalog, id); ok {
		return f
	}
	if len(catalog) > 0 {
		return catalog[0]
	}
	return fallbackFires[0]
}

// NormalizeCatalog derives each fire's Year from its StartDate when the date
// parses. The input slice is not modified.
func NormalizeCatalog(fires []Fire) []Fire {
	out := make([]Fire, len(fires))
	for i, f := range fires {
		if t, ok := f.Started(); ok {
			f.Year = t.Year()
		}
		out[i] = f
	}
	return out
}
