package http

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/terranova-dashboard/internal/domain"
	"github.com/couchcryptid/terranova-dashboard/internal/pipeline"
)

// ErrUnknownAction is returned for an action type the dashboard does not handle.
var ErrUnknownAction = errors.New("unknown action")

// actionRequest is the JSON body of POST /api/actions. Only the fields the
// named type needs are read.
type actionRequest struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value int    `json:"value"`
	On    bool   `json:"on"`
	Index *int   `json:"index"`
	Text  string `json:"text"`
	Role  string `json:"role"`
	Years int    `json:"years"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Delta int    `json:"delta"`
}

func (r actionRequest) toAction() (pipeline.Action, error) {
	switch r.Type {
	case "selectFire":
		return pipeline.SelectFire{ID: r.ID}, nil
	case "setPriority":
		key, err := domain.ParsePriorityKey(r.Key)
		if err != nil {
			return nil, err
		}
		return pipeline.SetPriority{Key: key, Value: r.Value}, nil
	case "setTimeline":
		return pipeline.SetTimeline{Index: r.Value}, nil
	case "commitTimeline":
		return pipeline.CommitTimeline{}, nil
	case "selectRole":
		return pipeline.SelectRole{Role: r.Role}, nil
	case "setHorizon":
		return pipeline.SetHorizon{Years: r.Years}, nil
	case "toggleLayer":
		return pipeline.ToggleLayer{Key: r.Key, On: r.On}, nil
	case "setQuery":
		return pipeline.SetQuery{Text: r.Text}, nil
	case "moveSuggestion":
		return pipeline.MoveSuggestion{Delta: r.Delta}, nil
	case "pickSuggestion":
		i := -1
		if r.Index != nil {
			i = *r.Index
		}
		return pipeline.PickSuggestion{Index: i}, nil
	case "hideSuggestions":
		return pipeline.HideSuggestions{}, nil
	case "setSearchYear":
		return pipeline.SetSearchYear{Year: r.Year}, nil
	case "setSearchMonth":
		return pipeline.SetSearchMonth{Month: r.Month}, nil
	case "runSearch":
		return pipeline.RunSearch{}, nil
	case "clearSearch":
		return pipeline.ClearSearch{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, r.Type)
	}
}
