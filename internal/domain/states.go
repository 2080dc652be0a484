package domain

import "strings"

// USState is an autocomplete entry.
type USState struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// MaxSuggestions caps the autocomplete list.
const MaxSuggestions = 3

var usStates = []USState{
	{"AL", "Alabama"}, {"AK", "Alaska"}, {"AZ", "Arizona"}, {"AR", "Arkansas"},
	{"CA", "California"}, {"CO", "Colorado"}, {"CT", "Connecticut"}, {"DE", "Delaware"},
	{"FL", "Florida"}, {"GA", "Georgia"}, {"HI", "Hawaii"}, {"ID", "Idaho"},
	{"IL", "Illinois"}, {"IN", "Indiana"}, {"IA", "Iowa"}, {"KS", "Kansas"},
	{"KY", "Kentucky"}, {"LA", "Louisiana"}, {"ME", "Maine"}, {"MD", "Maryland"},
	{"MA", "Massachusetts"}, {"MI", "Michigan"}, {"MN", "Minnesota"}, {"MS", "Mississippi"},
	{"MO", "Missouri"}, {"MT", "Montana"}, {"NE", "Nebraska"}, {"NV", "Nevada"},
	{"NH", "New Hampshire"}, {"NJ", "New Jersey"}, {"NM", "New Mexico"}, {"NY", "New York"},
	{"NC", "North Carolina"}, {"ND", "North Dakota"}, {"OH", "Ohio"}, {"OK", "Oklahoma"},
	{"OR", "Oregon"}, {"PA", "Pennsylvania"}, {"RI", "Rhode Island"}, {"SC", "South Carolina"},
	{"SD", "South Dakota"}, {"TN", "Tennessee"}, {"TX", "Texas"}, {"UT", "Utah"},
	{"VT", "Vermont"}, {"VA", "Virginia"}, {"WA", "Washington"}, {"WV", "West Virginia"},
	{"WI", "Wisconsin"}, {"WY", "Wyoming"},
}

// SuggestStates returns up to MaxSuggestions states whose code starts with
// the query or whose name contains it, case-insensitively, in alphabetical
// order of the state list. A blank query yields no suggestions.
func SuggestStates(query string) []USState {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []USState
	for _, s := range usStates {
		if strings.HasPrefix(s.Code, q) || strings.Contains(strings.ToUpper(s.Name), q) {
			out = append(out, s)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}
