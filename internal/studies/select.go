package studies

import (
	"errors"
	"math/rand/v2"
	"sort"

	"studyroulette/internal/models"
)

// ErrPoolExhausted is returned when no study carries a positive weight.
var ErrPoolExhausted = errors.New("no study with positive weight available")

// Select draws one study at random with probability proportional to its
// weight. Zero-weight studies are never drawn. Weights need not sum to
// any particular value; only their ratios matter.
func Select(pool []models.Study) (models.Study, error) {
	eligible := make([]models.Study, 0, len(pool))
	cum := make([]float64, 0, len(pool))
	total := 0.0
	for _, s := range pool {
		if s.Weight <= 0 {
			continue
		}
		total += s.Weight
		eligible = append(eligible, s)
		cum = append(cum, total)
	}
	if len(eligible) == 0 {
		return models.Study{}, ErrPoolExhausted
	}

	r := rand.Float64() * total
	i := sort.Search(len(cum), func(j int) bool { return cum[j] > r })
	if i == len(cum) {
		// Rounding can push r to the very top of the range.
		i = len(cum) - 1
	}
	return eligible[i], nil
}
