// Package config loads and validates the numeric/rate knobs of a
// planner.PlannerConfig from JSON. The function-valued fields
// (InitialState, RandomAction) are supplied by the embedding program and
// are not covered here.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// GAKnobs holds the serializable genetic-algorithm parameters of a
// planner run.
type GAKnobs struct {
	MaxActions     int     `json:"max_actions"`
	PopulationSize int     `json:"population_size"`
	UniformRate    float64 `json:"uniform_rate"`
	MutationRate   float64 `json:"mutation_rate"`
	TournamentSize int     `json:"tournament_size"`
	ElitismSize    int     `json:"elitism_size"`
	WorkerCount    int     `json:"worker_count"`
}

// Default returns a sensible default set of GA knobs.
func Default() GAKnobs {
	return GAKnobs{
		MaxActions:     20,
		PopulationSize: 100,
		UniformRate:    0.5,
		MutationRate:   0.1,
		TournamentSize: 5,
		ElitismSize:    2,
		WorkerCount:    0, // clamped to 1 by the engine
	}
}

// LoadFromFile loads GA knobs from a JSON file, starting from Default()
// so a partial file only overrides the fields it sets.
func LoadFromFile(filename string) (GAKnobs, error) {
	knobs := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return knobs, fmt.Errorf("config: read file: %w", err)
	}

	if err := json.Unmarshal(data, &knobs); err != nil {
		return knobs, fmt.Errorf("config: parse file: %w", err)
	}

	return knobs, nil
}

// LoadFromJSON loads GA knobs from a JSON string.
func LoadFromJSON(jsonStr string) (GAKnobs, error) {
	knobs := Default()

	if err := json.Unmarshal([]byte(jsonStr), &knobs); err != nil {
		return knobs, fmt.Errorf("config: parse JSON: %w", err)
	}

	return knobs, nil
}

// SaveToFile writes knobs to filename as indented JSON.
func (k GAKnobs) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("config: write file: %w", err)
	}

	return nil
}

// ToJSON returns knobs as an indented JSON string.
func (k GAKnobs) ToJSON() (string, error) {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return "", fmt.Errorf("config: marshal: %w", err)
	}

	return string(data), nil
}

// Validate checks that knobs are within the ranges the engine expects:
// values outside these ranges are programmer error, not something the
// engine recovers from gracefully.
func (k GAKnobs) Validate() error {
	if k.MaxActions <= 0 {
		return errors.New("max actions must be positive")
	}

	if k.PopulationSize <= 0 {
		return errors.New("population size must be positive")
	}

	if k.TournamentSize <= 0 {
		return errors.New("tournament size must be positive")
	}

	if k.UniformRate < 0 || k.UniformRate > 1 {
		return errors.New("uniform rate must be between 0 and 1")
	}

	if k.MutationRate < 0 || k.MutationRate > 1 {
		return errors.New("mutation rate must be between 0 and 1")
	}

	if k.ElitismSize < 0 {
		return errors.New("elitism size must be non-negative")
	}

	if k.WorkerCount < 0 {
		return errors.New("worker count must be non-negative (0 is clamped to 1)")
	}

	return nil
}

// ParameterInfo describes one configuration parameter, for UIs or CLIs
// built on top of this package to introspect.
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default"`
	Min         any    `json:"min,omitempty"`
	Max         any    `json:"max,omitempty"`
}

// GetParameterInfo returns metadata about every GAKnobs field.
func GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "max_actions", Type: "integer", Description: "Maximum plan length (gene count)", Default: 20, Min: 1},
		{Name: "population_size", Type: "integer", Description: "Number of individuals per generation", Default: 100, Min: 1},
		{Name: "uniform_rate", Type: "float", Description: "Per-gene probability of taking the first parent's gene during crossover", Default: 0.5, Min: 0.0, Max: 1.0},
		{Name: "mutation_rate", Type: "float", Description: "Per-gene probability of resampling during mutation", Default: 0.1, Min: 0.0, Max: 1.0},
		{Name: "tournament_size", Type: "integer", Description: "Number of individuals drawn per tournament selection", Default: 5, Min: 1},
		{Name: "elitism_size", Type: "integer", Description: "Number of top distinct individuals carried over unconditionally", Default: 2, Min: 0},
		{Name: "worker_count", Type: "integer", Description: "Parallel offspring-production workers (values below 1 are clamped to 1)", Default: 0, Min: 0},
	}
}
