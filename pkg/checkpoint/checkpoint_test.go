package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexthorne/geneplan/pkg/engine"
)

type namedGene string

func (g namedGene) Equal(other namedGene) bool { return g == other }

func namedGeneCodec() GeneCodec[namedGene, string] {
	return GeneCodec[namedGene, string]{
		Encode: func(g namedGene) string { return string(g) },
		Decode: func(s string) namedGene { return namedGene(s) },
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	sampler := func() namedGene { return "a" }
	fitness := func(ind engine.Individual[namedGene]) int { return len(ind.Genes) }

	config := engine.PopulationConfig[namedGene]{
		Fitness:        fitness,
		Sampler:        sampler,
		PopulationSize: 4,
		GeneCount:      3,
		UniformRate:    0.5,
		MutationRate:   0.1,
		TournamentSize: 2,
		ElitismSize:    1,
		WorkerCount:    2,
	}

	pop := engine.NewPopulation(config)
	pop.Generation = 7

	path := filepath.Join(t.TempDir(), "checkpoint.json")
	codec := namedGeneCodec()

	require.NoError(t, Save(path, pop, codec))

	data, err := Load[string](path)
	require.NoError(t, err)
	assert.Equal(t, pop.Generation, data.Generation)
	assert.Equal(t, CheckpointVersion, data.Version)
	assert.Len(t, data.Individuals, len(pop.Scored))

	restored := Restore(data, codec, fitness, sampler)
	assert.Equal(t, pop.Generation, restored.Generation)
	require.Len(t, restored.Scored, len(pop.Scored))

	for i, scored := range pop.Scored {
		assert.Equal(t, scored.Score, restored.Scored[i].Score)
		assert.Equal(t, scored.Individual.Genes, restored.Scored[i].Individual.Genes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load[string](filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
