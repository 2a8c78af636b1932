// Package checkpoint persists an engine.Population to disk and restores
// it, so a long-running search can resume from a saved generation instead
// of only from one supplied in-process. Gene types generally carry
// function fields (see planner.Action) that cannot be marshaled directly,
// so callers supply a GeneCodec to bridge between a gene and its
// serializable representation.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexthorne/geneplan/pkg/engine"
)

// CheckpointVersion is the current checkpoint format version.
const CheckpointVersion = "1.0"

// GeneCodec bridges between a gene value and a representation JSON can
// marshal. Decode must be the exact inverse of Encode for any value
// Encode can produce.
type GeneCodec[G engine.Gene[G], R any] struct {
	Encode func(G) R
	Decode func(R) G
}

// IndividualData is the serializable form of a ScoredIndividual.
type IndividualData[R any] struct {
	Genes []R `json:"genes"`
	Score int `json:"score"`
}

// Data is the serializable form of a Population: everything except the
// function-valued fields of PopulationConfig (Fitness, Sampler), which
// the caller must resupply when restoring — they are closures over a
// particular run and are not meaningfully serializable.
type Data[R any] struct {
	Generation     int                 `json:"generation"`
	Individuals    []IndividualData[R] `json:"individuals"`
	PopulationSize int                 `json:"population_size"`
	GeneCount      int                 `json:"gene_count"`
	UniformRate    float64             `json:"uniform_rate"`
	MutationRate   float64             `json:"mutation_rate"`
	TournamentSize int                 `json:"tournament_size"`
	ElitismSize    int                 `json:"elitism_size"`
	WorkerCount    int                 `json:"worker_count"`
	Timestamp      time.Time           `json:"timestamp"`
	Version        string              `json:"version"`
}

// ToData converts a Population into its serializable form using codec.
func ToData[G engine.Gene[G], R any](pop engine.Population[G], codec GeneCodec[G, R]) Data[R] {
	individuals := make([]IndividualData[R], len(pop.Scored))

	for i, scored := range pop.Scored {
		genes := make([]R, len(scored.Individual.Genes))
		for j, gene := range scored.Individual.Genes {
			genes[j] = codec.Encode(gene)
		}

		individuals[i] = IndividualData[R]{Genes: genes, Score: scored.Score}
	}

	config := pop.Config

	return Data[R]{
		Generation:     pop.Generation,
		Individuals:    individuals,
		PopulationSize: config.PopulationSize,
		GeneCount:      config.GeneCount,
		UniformRate:    config.UniformRate,
		MutationRate:   config.MutationRate,
		TournamentSize: config.TournamentSize,
		ElitismSize:    config.ElitismSize,
		WorkerCount:    config.WorkerCount,
		Timestamp:      time.Now(),
		Version:        CheckpointVersion,
	}
}

// Restore rebuilds a Population from its serializable form. fitness and
// sampler are resupplied by the caller since they cannot be serialized.
func Restore[G engine.Gene[G], R any](data Data[R], codec GeneCodec[G, R], fitness func(engine.Individual[G]) int, sampler engine.Sampler[G]) engine.Population[G] {
	scored := make([]engine.ScoredIndividual[G], len(data.Individuals))

	for i, ind := range data.Individuals {
		genes := make([]G, len(ind.Genes))
		for j, r := range ind.Genes {
			genes[j] = codec.Decode(r)
		}

		scored[i] = engine.ScoredIndividual[G]{
			Individual: engine.NewIndividualFromGenes(genes),
			Score:      ind.Score,
		}
	}

	config := engine.PopulationConfig[G]{
		Fitness:        fitness,
		Sampler:        sampler,
		PopulationSize: data.PopulationSize,
		GeneCount:      data.GeneCount,
		UniformRate:    data.UniformRate,
		MutationRate:   data.MutationRate,
		TournamentSize: data.TournamentSize,
		ElitismSize:    data.ElitismSize,
		WorkerCount:    data.WorkerCount,
	}

	return engine.Population[G]{Scored: scored, Config: config, Generation: data.Generation}
}

// Save writes a Population to path as JSON, via a temp-file-then-rename
// so a crash mid-write never leaves a corrupt checkpoint in place.
func Save[G engine.Gene[G], R any](path string, pop engine.Population[G], codec GeneCodec[G, R]) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: create directory: %w", err)
	}

	data, err := json.MarshalIndent(ToData(pop, codec), "", "  ")
	if err != nil {
		return fmt.Errorf("checkpoint: marshal: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)

		return fmt.Errorf("checkpoint: finalize: %w", err)
	}

	return nil
}

// Load reads the checkpoint data previously written by Save. It returns
// the serializable Data, not a Population; pass it to Restore to rebuild
// the Population.
func Load[R any](path string) (Data[R], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data[R]{}, fmt.Errorf("checkpoint: read: %w", err)
	}

	var data Data[R]
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data[R]{}, fmt.Errorf("checkpoint: unmarshal: %w", err)
	}

	return data, nil
}
