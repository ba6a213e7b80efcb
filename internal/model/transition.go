package model

// Transition is one edge of an issue's workflow that the tracker reports as
// currently available. It is only meaningful for the issue it was listed on.
type Transition struct {
	ID               string `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	TargetStatusName string `json:"target_status" yaml:"target_status"`
}

// TransitionNames returns the names of ts in order.
func TransitionNames(ts []Transition) []string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, t.Name)
	}
	return names
}
