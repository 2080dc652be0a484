package pipeline

import (
	"maps"
	"slices"

	"github.com/couchcryptid/terranova-dashboard/internal/domain"
)

// State is the dashboard's owned application state. It changes only through
// Reduce.
type State struct {
	RoleVariant bool             `json:"roleVariant"`
	Selection   domain.Selection `json:"selection"`
	Catalog     []domain.Fire    `json:"catalog"`
	Layers      map[string]bool  `json:"layers"`

	Query              string              `json:"query"`
	Suggestions        []domain.USState    `json:"suggestions"`
	SuggestionIndex    int                 `json:"suggestionIndex"`
	SuggestionsVisible bool                `json:"suggestionsVisible"`
	Search             domain.SearchFilter `json:"search"`
	// SearchResults is nil until a search runs.
	SearchResults []domain.Fire `json:"searchResults"`
}

// NewState returns the state at load.
func NewState(roleVariant bool) State {
	sel := domain.DefaultSelection()
	if roleVariant {
		sel.FireID = ""
	}
	layers := make(map[string]bool, len(domain.LayerKeys()))
	for _, k := range domain.LayerKeys() {
		layers[k] = true
	}
	return State{
		RoleVariant:     roleVariant,
		Selection:       sel,
		Catalog:         domain.FallbackFires(),
		Layers:          layers,
		Suggestions:     []domain.USState{},
		SuggestionIndex: -1,
	}
}

// SearchEnabled reports whether state, year and month are all chosen.
func (s State) SearchEnabled() bool {
	return s.Search.Complete()
}

// VisibleFires returns the fires the list shows: search results after a
// search, the whole catalog otherwise.
func (s State) VisibleFires() []domain.Fire {
	if s.SearchResults != nil {
		return s.SearchResults
	}
	return s.Catalog
}

func (s State) clone() State {
	s.Catalog = slices.Clone(s.Catalog)
	s.Layers = maps.Clone(s.Layers)
	s.Suggestions = slices.Clone(s.Suggestions)
	s.SearchResults = slices.Clone(s.SearchResults)
	return s
}

// Effect is a bitmask of the work a state change requires.
type Effect uint

const (
	// EffectControls re-renders slider readouts and forecast labels.
	EffectControls Effect = 1 << iota
	// EffectFireList re-renders the fire list and fire pins.
	EffectFireList
	// EffectLoad runs the fetch, merge and render cycle now.
	EffectLoad
	// EffectDebouncedLoad runs the cycle after the slider quiet window.
	EffectDebouncedLoad
	// EffectLayers reapplies layer visibility.
	EffectLayers
	// EffectSuggest refreshes autocomplete after the suggestion quiet window.
	EffectSuggest

	EffectNone Effect = 0
)

// Has reports whether e includes every bit of other.
func (e Effect) Has(other Effect) bool {
	return e&other == other && other != 0
}

// Action is a discrete user or system event.
type Action interface {
	isAction()
}

type (
	// SelectFire picks a fire (or, in the role variant, a focus marker).
	SelectFire struct{ ID string }
	// SetPriority moves a priority slider.
	SetPriority struct {
		Key   domain.PriorityKey
		Value int
	}
	// SetTimeline moves the forecast slider without committing.
	SetTimeline struct{ Index int }
	// CommitTimeline releases the forecast slider.
	CommitTimeline struct{}
	// SelectRole clicks a role chip.
	SelectRole struct{ Role string }
	// SetHorizon moves the role horizon slider.
	SetHorizon struct{ Years int }
	// CatalogLoaded replaces the fire catalog.
	CatalogLoaded struct{ Fires []domain.Fire }
	// ToggleLayer shows or hides an overlay layer.
	ToggleLayer struct {
		Key string
		On  bool
	}
	// SetQuery edits the state search box.
	SetQuery struct{ Text string }
	// ShowSuggestions recomputes autocomplete for the current query.
	ShowSuggestions struct{}
	// MoveSuggestion moves the highlight by Delta (Down is +1, Up is -1).
	MoveSuggestion struct{ Delta int }
	// PickSuggestion chooses suggestion Index; -1 picks the highlighted one.
	PickSuggestion struct{ Index int }
	// HideSuggestions closes the autocomplete list.
	HideSuggestions struct{}
	// SetSearchYear chooses a year; 0 clears it.
	SetSearchYear struct{ Year int }
	// SetSearchMonth chooses a month 1-12; 0 clears it.
	SetSearchMonth struct{ Month int }
	// RunSearch filters the catalog when every filter is set.
	RunSearch struct{}
	// ClearSearch restores the full catalog in the fire list.
	ClearSearch struct{}
)

func (SelectFire) isAction()      {}
func (SetPriority) isAction()     {}
func (SetTimeline) isAction()     {}
func (CommitTimeline) isAction()  {}
func (SelectRole) isAction()      {}
func (SetHorizon) isAction()      {}
func (CatalogLoaded) isAction()   {}
func (ToggleLayer) isAction()     {}
func (SetQuery) isAction()        {}
func (ShowSuggestions) isAction() {}
func (MoveSuggestion) isAction()  {}
func (PickSuggestion) isAction()  {}
func (HideSuggestions) isAction() {}
func (SetSearchYear) isAction()   {}
func (SetSearchMonth) isAction()  {}
func (RunSearch) isAction()       {}
func (ClearSearch) isAction()     {}

// Reduce applies a to s and returns the new state with the effects it
// requires. s is not modified.
func Reduce(s State, a Action) (State, Effect) {
	s = s.clone()

	switch a := a.(type) {
	case SelectFire:
		if a.ID == "" || a.ID == s.Selection.FireID {
			return s, EffectNone
		}
		s.Selection.FireID = a.ID
		return s, EffectFireList | EffectLoad

	case SetPriority:
		if _, err := domain.ParsePriorityKey(string(a.Key)); err != nil {
			return s, EffectNone
		}
		s.Selection.Weights = s.Selection.Weights.With(a.Key, a.Value)
		return s, EffectControls | EffectDebouncedLoad

	case SetTimeline:
		s.Selection.Timeline = max(0, min(len(domain.TimelineStages())-1, a.Index))
		return s, EffectControls

	case CommitTimeline:
		return s, EffectControls | EffectLoad

	case SelectRole:
		role := domain.NormalizeRole(a.Role)
		if role == s.Selection.Role {
			return s, EffectNone
		}
		s.Selection.Role = role
		s.Selection.FireID = ""
		return s, EffectLoad

	case SetHorizon:
		s.Selection.Horizon = domain.ClampHorizon(a.Years)
		return s, EffectDebouncedLoad

	case CatalogLoaded:
		if len(a.Fires) == 0 {
			return s, EffectNone
		}
		s.Catalog = slices.Clone(a.Fires)
		if s.SearchResults != nil {
			s.SearchResults = domain.FilterFires(s.Catalog, s.Search)
		}
		if !s.RoleVariant {
			if _, ok := domain.FindFire(s.Catalog, s.Selection.FireID); !ok {
				s.Selection.FireID = s.Catalog[0].ID
			}
		}
		return s, EffectFireList

	case ToggleLayer:
		if _, ok := s.Layers[a.Key]; !ok {
			return s, EffectNone
		}
		s.Layers[a.Key] = a.On
		return s, EffectLayers

	case SetQuery:
		s.Query = a.Text
		s.Search.State = ""
		return s, EffectSuggest

	case ShowSuggestions:
		s.Suggestions = append([]domain.USState{}, domain.SuggestStates(s.Query)...)
		s.SuggestionIndex = -1
		s.SuggestionsVisible = len(s.Suggestions) > 0
		return s, EffectNone

	case MoveSuggestion:
		if a.Delta > 0 && len(s.Suggestions) > 0 {
			s.SuggestionIndex = min(s.SuggestionIndex+1, len(s.Suggestions)-1)
		} else if a.Delta < 0 {
			s.SuggestionIndex = max(s.SuggestionIndex-1, -1)
		}
		return s, EffectNone

	case PickSuggestion:
		i := a.Index
		if i < 0 {
			i = s.SuggestionIndex
		}
		if i < 0 || i >= len(s.Suggestions) {
			return s, EffectNone
		}
		picked := s.Suggestions[i]
		s.Query = picked.Name
		s.Search.State = picked.Code
		s.SuggestionsVisible = false
		s.SuggestionIndex = -1
		return s, EffectNone

	case HideSuggestions:
		s.SuggestionsVisible = false
		return s, EffectNone

	case SetSearchYear:
		if a.Year != 0 && (a.Year < domain.SearchYearLast || a.Year > domain.SearchYearFirst) {
			return s, EffectNone
		}
		s.Search.Year = a.Year
		return s, EffectNone

	case SetSearchMonth:
		if a.Month < 0 || a.Month > 12 {
			return s, EffectNone
		}
		s.Search.Month = a.Month
		return s, EffectNone

	case RunSearch:
		if !s.Search.Complete() {
			return s, EffectNone
		}
		s.SearchResults = domain.FilterFires(s.Catalog, s.Search)
		return s, EffectFireList

	case ClearSearch:
		if s.SearchResults == nil {
			return s, EffectNone
		}
		s.SearchResults = nil
		return s, EffectFireList
	}
	return s, EffectNone
}
