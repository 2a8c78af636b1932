// Package engine implements the generic steady-state genetic algorithm:
// Individual/Population, crossover, mutation, tournament selection,
// elitism, and parallel generational evolution.
package engine

import "math/rand/v2"

// Gene is the capability set a gene type must satisfy: value-copy
// semantics come for free in Go, so only equality (needed for top-k
// distinctness) is explicit.
type Gene[G any] interface {
	Equal(other G) bool
}

// Sampler produces one freshly-sampled gene. It is invoked from multiple
// goroutines concurrently and must not depend on shared mutable state.
type Sampler[G Gene[G]] func() G

// Individual is a fixed-length ordered sequence of genes representing one
// candidate solution. Individuals are immutable: crossover and mutation
// always produce a new Individual.
type Individual[G Gene[G]] struct {
	Genes []G
}

// NewRandomIndividual builds an individual of geneCount independently
// sampled genes.
func NewRandomIndividual[G Gene[G]](geneCount int, sample Sampler[G]) Individual[G] {
	genes := make([]G, geneCount)
	for i := range genes {
		genes[i] = sample()
	}

	return Individual[G]{Genes: genes}
}

// NewIndividualFromGenes wraps an existing gene sequence. No validation
// beyond taking ownership of a copy.
func NewIndividualFromGenes[G Gene[G]](genes []G) Individual[G] {
	owned := make([]G, len(genes))
	copy(owned, genes)

	return Individual[G]{Genes: owned}
}

// Clone returns a deep copy (new backing array) of the individual.
func (ind Individual[G]) Clone() Individual[G] {
	return NewIndividualFromGenes(ind.Genes)
}

// Crossover produces a new individual of length min(|ind.Genes|,
// |other.Genes|). For each index, independently with probability
// uniformRate the gene is taken from ind, otherwise from other.
func (ind Individual[G]) Crossover(other Individual[G], uniformRate float64) Individual[G] {
	length := min(len(ind.Genes), len(other.Genes))
	child := make([]G, length)

	for i := range length {
		if rand.Float64() < uniformRate {
			child[i] = ind.Genes[i]
		} else {
			child[i] = other.Genes[i]
		}
	}

	return Individual[G]{Genes: child}
}

// Mutate produces a new individual of the same length as ind. For each
// index, independently with probability mutationRate the gene is replaced
// by a freshly sampled one; otherwise the original gene is copied.
func (ind Individual[G]) Mutate(mutationRate float64, sample Sampler[G]) Individual[G] {
	child := make([]G, len(ind.Genes))

	for i, gene := range ind.Genes {
		if rand.Float64() < mutationRate {
			child[i] = sample()
		} else {
			child[i] = gene
		}
	}

	return Individual[G]{Genes: child}
}
