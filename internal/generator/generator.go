// Package generator picks practice prompts.
package generator

import (
	"math/rand"
	"time"
)

// VowelsFunc returns the expected vowels of a prompt.
type VowelsFunc func(prompt string) []string

// Generator produces randomized prompt sequences.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects prompts uniformly.
func (g *Generator) Generate(prompts []string, count int) []string {
	if len(prompts) == 0 {
		return nil
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, prompts[g.rnd.Intn(len(prompts))])
	}
	return result
}

// GenerateWeighted selects prompts with a bias toward weak vowels. Each
// prompt weighs 1 + hits*factor, where hits counts its expected vowels that
// are in weakSet.
func (g *Generator) GenerateWeighted(prompts []string, count int, vowelsOf VowelsFunc, weakSet map[string]struct{}, factor float64) []string {
	if len(prompts) == 0 {
		return nil
	}
	weights := Weights(prompts, vowelsOf, weakSet, factor)
	total := 0.0
	for _, w := range weights {
		total += w
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		idx := len(prompts) - 1
		acc := 0.0
		for j, w := range weights {
			acc += w
			if r < acc {
				idx = j
				break
			}
		}
		result = append(result, prompts[idx])
	}
	return result
}

// Weights returns the selection weight of each prompt.
func Weights(prompts []string, vowelsOf VowelsFunc, weakSet map[string]struct{}, factor float64) []float64 {
	weights := make([]float64, len(prompts))
	for i, p := range prompts {
		hits := 0
		for _, v := range vowelsOf(p) {
			if _, ok := weakSet[v]; ok {
				hits++
			}
		}
		weights[i] = 1.0 + float64(hits)*max(factor, 0)
	}
	return weights
}
