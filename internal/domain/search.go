package domain

// Search year bounds for the year dropdown, newest first.
const (
	SearchYearFirst = 2025
	SearchYearLast  = 1994
)

// SearchYears returns the year dropdown options.
func SearchYears() []int {
	years := make([]int, 0, SearchYearFirst-SearchYearLast+1)
	for y := SearchYearFirst; y >= SearchYearLast; y-- {
		years = append(years, y)
	}
	return years
}

// SearchFilter holds the state/year/month search controls. Zero values mean
// "not selected".
type SearchFilter struct {
	State string `json:"state,omitempty"`
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
}

// Complete reports whether all three filters are set, which enables search.
func (f SearchFilter) Complete() bool {
	return f.State != "" && f.Year != 0 && f.Month >= 1 && f.Month <= 12
}

// FilterFires returns the fires matching the filter. A fire without a start
// date matches any month.
func FilterFires(catalog []Fire, f SearchFilter) []Fire {
	out := []Fire{}
	for _, fire := range catalog {
		if f.State != "" && fire.State != f.State {
			continue
		}
		if f.Year != 0 && fire.Year != f.Year {
			continue
		}
		if f.Month != 0 {
			if t, ok := fire.Started(); ok && int(t.Month()) != f.Month {
				continue
			}
		}
		out = append(out, fire)
	}
	return out
}
