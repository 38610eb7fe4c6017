package domain

// GoalIntent is a race goal extracted from free text before it is resolved
// against the configured distances.
type GoalIntent struct {
	Distance    string  `json:"distance"`
	GoalMinutes float64 `json:"goal_minutes"`
}
