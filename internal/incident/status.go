package incident

import "github.com/garnizeh/hersafety/pkg/models"

// TransitionPolicy decides whether an incident may move between statuses.
type TransitionPolicy interface {
	Allowed(from, to models.Status) bool
}

// AnyTransition permits every move between valid statuses.
type AnyTransition struct{}

func (AnyTransition) Allowed(from, to models.Status) bool {
	return to.Valid()
}

// StrictTransitions only permits forward moves, plus reopening work that is
// in progress. Resolved is terminal.
type StrictTransitions struct{}

var strictTable = map[models.Status][]models.Status{
	models.StatusNew:        {models.StatusInProgress, models.StatusResolved},
	models.StatusInProgress: {models.StatusResolved, models.StatusNew},
	models.StatusResolved:   {},
}

func (StrictTransitions) Allowed(from, to models.Status) bool {
	if from == to {
		return to.Valid()
	}
	for _, s := range strictTable[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PolicyFor returns the policy matching the strict flag from config.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return StrictTransitions{}
	}
	return AnyTransition{}
}
