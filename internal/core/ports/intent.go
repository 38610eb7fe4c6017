package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/stride/internal/core/domain"
)

// ErrUnparseableGoal indicates the text did not contain a usable race goal.
var ErrUnparseableGoal = errors.New("no race goal found")

// GoalParser turns a runner's free-text goal into a structured intent.
type GoalParser interface {
	ParseGoal(ctx context.Context, message string) (domain.GoalIntent, error)
}
