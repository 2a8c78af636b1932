package planner

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/alexthorne/geneplan/pkg/engine"
)

// PlannerConfig is the user-facing configuration that lowers into an
// engine.PopulationConfig. InitialState and RandomAction express what
// would otherwise be static, type-level constructors for T: Go generics
// have no way to dispatch a function off a type parameter alone, so the
// caller supplies them as explicit function fields instead.
type PlannerConfig[T PlanState] struct {
	InitialState func() T
	RandomAction func() Action[T]

	MaxActions     int
	PopulationSize int
	UniformRate    float64
	MutationRate   float64
	TournamentSize int
	ElitismSize    int
	WorkerCount    int
}

// toPopulationConfig lowers a PlannerConfig into the engine's generic
// PopulationConfig, binding the fitness function to this run's
// (constant) initial state.
func (c PlannerConfig[T]) toPopulationConfig() engine.PopulationConfig[Action[T]] {
	initial := c.InitialState()

	fitness := func(ind engine.Individual[Action[T]]) int {
		plan := Simulate(ind, initial)

		return -plan.State.GetHeuristic()
	}

	return engine.PopulationConfig[Action[T]]{
		Fitness:        fitness,
		Sampler:        engine.Sampler[Action[T]](c.RandomAction),
		PopulationSize: c.PopulationSize,
		GeneCount:      c.MaxActions,
		UniformRate:    c.UniformRate,
		MutationRate:   c.MutationRate,
		TournamentSize: c.TournamentSize,
		ElitismSize:    c.ElitismSize,
		WorkerCount:    c.WorkerCount,
	}
}

// Population is a convenience alias for the population type this planner
// specializes the engine with.
type Population[T PlanState] = engine.Population[Action[T]]

// FindSolution evolves a freshly-sampled population, generation by
// generation, until the plan reconstructed from the current fittest
// individual reaches a goal state, and returns that Plan. It is
// unbounded: if no gene sequence of length MaxActions ever reaches a goal
// under stochastic search, it does not terminate (unless ctx is
// cancelled).
func FindSolution[T PlanState](ctx context.Context, config PlannerConfig[T]) (Plan[T], error) {
	plan, _, err := findSolution(ctx, config, nil)

	return plan, err
}

// FindSolutionWithPopulation is FindSolution but additionally returns the
// final Population, enabling the caller to resume search later.
func FindSolutionWithPopulation[T PlanState](ctx context.Context, config PlannerConfig[T]) (Plan[T], Population[T], error) {
	return findSolution(ctx, config, nil)
}

// FindSolutionFrom is FindSolution but resumes from a caller-supplied
// starting Population instead of sampling a fresh one.
func FindSolutionFrom[T PlanState](ctx context.Context, config PlannerConfig[T], start Population[T]) (Plan[T], error) {
	plan, _, err := findSolution(ctx, config, &start)

	return plan, err
}

// FindSolutionFromWithPopulation combines FindSolutionFrom and
// FindSolutionWithPopulation.
func FindSolutionFromWithPopulation[T PlanState](ctx context.Context, config PlannerConfig[T], start Population[T]) (Plan[T], Population[T], error) {
	return findSolution(ctx, config, &start)
}

func findSolution[T PlanState](ctx context.Context, config PlannerConfig[T], start *Population[T]) (Plan[T], Population[T], error) {
	initial := config.InitialState()
	popConfig := config.toPopulationConfig()

	pop := resolveStartingPopulation(popConfig, start)

	for {
		select {
		case <-ctx.Done():
			return Plan[T]{}, pop, ctx.Err()
		default:
		}

		if best, ok := pop.Fittest(); ok {
			plan := Simulate(best.Individual, initial)
			if plan.State.IsGoal() {
				return plan, pop, nil
			}
		}

		next, err := pop.Evolve(ctx)
		if err != nil {
			return Plan[T]{}, pop, err
		}

		log.WithField("generation", next.Generation).Debug("planner: generation evolved, goal not yet reached")

		pop = next
	}
}

// FindBestAfterIterations evolves a freshly-sampled population exactly N
// times regardless of goal attainment, and returns the plan reconstructed
// from the final fittest individual.
func FindBestAfterIterations[T PlanState](ctx context.Context, config PlannerConfig[T], n int) (Plan[T], error) {
	plan, _, err := findBestAfterIterations(ctx, config, n, nil)

	return plan, err
}

// FindBestAfterIterationsWithPopulation is FindBestAfterIterations but
// additionally returns the final Population.
func FindBestAfterIterationsWithPopulation[T PlanState](ctx context.Context, config PlannerConfig[T], n int) (Plan[T], Population[T], error) {
	return findBestAfterIterations(ctx, config, n, nil)
}

// FindBestAfterIterationsFrom is FindBestAfterIterations but resumes from
// a caller-supplied starting Population instead of sampling a fresh one.
func FindBestAfterIterationsFrom[T PlanState](ctx context.Context, config PlannerConfig[T], start Population[T], n int) (Plan[T], error) {
	plan, _, err := findBestAfterIterations(ctx, config, n, &start)

	return plan, err
}

// FindBestAfterIterationsFromWithPopulation combines
// FindBestAfterIterationsFrom and FindBestAfterIterationsWithPopulation.
func FindBestAfterIterationsFromWithPopulation[T PlanState](ctx context.Context, config PlannerConfig[T], start Population[T], n int) (Plan[T], Population[T], error) {
	return findBestAfterIterations(ctx, config, n, &start)
}

func findBestAfterIterations[T PlanState](ctx context.Context, config PlannerConfig[T], n int, start *Population[T]) (Plan[T], Population[T], error) {
	initial := config.InitialState()
	popConfig := config.toPopulationConfig()

	pop := resolveStartingPopulation(popConfig, start)

	for range n {
		next, err := pop.Evolve(ctx)
		if err != nil {
			return Plan[T]{}, pop, err
		}

		pop = next
	}

	log.WithFields(log.Fields{"generation": pop.Generation, "iterations": n}).Debug("planner: iteration budget exhausted")

	best, ok := pop.Fittest()
	if !ok {
		return Plan[T]{}, pop, nil
	}

	return Simulate(best.Individual, initial), pop, nil
}

// resolveStartingPopulation returns start (rebound to popConfig, since
// the fitness closure captures this run's initial state) if supplied,
// otherwise samples a fresh generation-0 population.
func resolveStartingPopulation[T PlanState](popConfig engine.PopulationConfig[Action[T]], start *Population[T]) Population[T] {
	if start == nil {
		return engine.NewPopulation(popConfig)
	}

	resumed := *start
	resumed.Config = popConfig

	return resumed
}
