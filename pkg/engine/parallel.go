package engine

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// offspringResult is the payload carried back from an offspring-production
// worker to the driver goroutine.
type offspringResult[G Gene[G]] struct {
	index      int
	individual ScoredIndividual[G]
}

// Evolve produces the next generation from p. It copies the top
// clampedElitismSize distinct individuals unconditionally, then enqueues
// the remaining offspring-production tasks to a worker pool sized
// max(1, config.WorkerCount). Each task performs two independent
// tournament selections, crossover, mutation, and scores the result; the
// driver blocks only until it has collected exactly
// population_size-elitism_size results. Arrival order is nondeterministic
// by design.
//
// ctx lets a caller abandon a long-running generation (e.g. on shutdown or
// a deadline) instead of waiting for every worker to finish.
func (p Population[G]) Evolve(ctx context.Context) (Population[G], error) {
	config := p.Config

	elitismSize := config.clampedElitismSize()
	if elitismSize != config.ElitismSize {
		log.WithFields(log.Fields{"elitism_size": config.ElitismSize, "population_size": config.PopulationSize}).
			Warn("engine: elitism size clamped to population size")
	}

	workerCount := config.clampedWorkerCount()
	if workerCount != config.WorkerCount {
		log.WithField("worker_count", config.WorkerCount).Warn("engine: worker count clamped to 1")
	}

	elites := p.TopK(elitismSize)

	offspringCount := config.PopulationSize - len(elites)

	nextGen := make([]ScoredIndividual[G], 0, config.PopulationSize)
	nextGen = append(nextGen, elites...)

	if offspringCount <= 0 {
		return Population[G]{Scored: nextGen[:config.PopulationSize], Config: config, Generation: p.Generation + 1}, ctx.Err()
	}

	offspring, err := p.generateOffspring(ctx, offspringCount, workerCount)
	if err != nil {
		return Population[G]{}, err
	}

	nextGen = append(nextGen, offspring...)

	log.WithFields(log.Fields{"generation": p.Generation + 1, "elites": len(elites), "offspring": len(offspring)}).
		Debug("engine: generation produced")

	return Population[G]{Scored: nextGen, Config: config, Generation: p.Generation + 1}, ctx.Err()
}

// generateOffspring runs count offspring-production tasks across
// workerCount goroutines, each operating on an independent read of p (no
// shared mutable state), and collects exactly count results.
func (p Population[G]) generateOffspring(ctx context.Context, count, workerCount int) ([]ScoredIndividual[G], error) {
	jobs := make(chan int, count)
	results := make(chan offspringResult[G], count)

	var wg sync.WaitGroup

	for range workerCount {
		wg.Add(1)

		go p.offspringWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)

		for i := range count {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	offspring := make([]ScoredIndividual[G], count)
	collected := 0

	for result := range results {
		offspring[result.index] = result.individual
		collected++
	}

	if err := ctx.Err(); err != nil && collected < count {
		return nil, err
	}

	return offspring, nil
}

// offspringWorker selects two parents by tournament, applies crossover and
// mutation, scores the mutant, and emits the (mutant, score) pair.
func (p Population[G]) offspringWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan int, results chan<- offspringResult[G]) {
	defer wg.Done()

	config := p.Config

	for {
		select {
		case index, ok := <-jobs:
			if !ok {
				return
			}

			parent1 := p.Tournament(config.TournamentSize)
			parent2 := p.Tournament(config.TournamentSize)

			child := parent1.Crossover(parent2, config.UniformRate)
			child = child.Mutate(config.MutationRate, config.Sampler)

			scored := ScoredIndividual[G]{Individual: child, Score: config.Fitness(child)}

			select {
			case results <- offspringResult[G]{index: index, individual: scored}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
