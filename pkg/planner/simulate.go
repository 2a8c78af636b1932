package planner

import "github.com/alexthorne/geneplan/pkg/engine"

// Simulate walks an individual's action sequence front-to-back starting
// from initialState. Each action is applied in turn; the walk stops as
// soon as the current state is a goal, or as soon as an action is
// inapplicable. An inapplicable action terminates the walk entirely — it
// is not skipped, and the genes after it are never consulted. The
// returned Plan's Actions is therefore a prefix of the individual's genes
// with the first inapplicable action (and everything after it) removed,
// and Plan.State is the state reached by applying exactly those actions.
func Simulate[T PlanState](ind engine.Individual[Action[T]], initialState T) Plan[T] {
	current := initialState
	used := make([]Action[T], 0, len(ind.Genes))

	for _, action := range ind.Genes {
		if current.IsGoal() {
			break
		}

		next, ok := action.Apply(current)
		if !ok {
			break
		}

		used = append(used, action)
		current = next
	}

	return Plan[T]{State: current, Actions: used}
}
