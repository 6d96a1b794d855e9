package corpus

import (
	"math"
	"math/rand/v2"

	"github.com/ppiankov/relcorpus/internal/model"
)

// ratioEpsilon absorbs float noise such as 1-0.8 = 0.19999999999999996
const ratioEpsilon = 1e-9

// SplitResult holds three disjoint partitions that together cover the input
type SplitResult struct {
	Train []model.RelationRecord
	Val   []model.RelationRecord
	Test  []model.RelationRecord
}

// Counts returns the partition sizes
func (s SplitResult) Counts() model.SplitCounts {
	return model.SplitCounts{Train: len(s.Train), Val: len(s.Val), Test: len(s.Test)}
}

// NewRand returns a random source for Split and the seed it was built from.
// A zero seed draws a fresh one so that unseeded runs differ.
func NewRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed
}

// Split shuffles records and cuts them into train, validation and test.
//
// The first cut holds out ceil((1-train) * n) records and keeps the rest for
// training. The held-out part is shuffled again and its test share is
// ceil(test/(val+test) * m); the remainder is validation. ratios must already
// be validated.
func Split(records []model.RelationRecord, ratios model.SplitConfig, rng *rand.Rand) SplitResult {
	train, rest := cut(records, 1-ratios.Train, rng)

	testFraction := 0.0
	if held := ratios.Val + ratios.Test; held > 0 {
		testFraction = ratios.Test / held
	}
	val, test := cut(rest, testFraction, rng)

	return SplitResult{Train: train, Val: val, Test: test}
}

// cut shuffles records and returns (keep, heldOut) with
// len(heldOut) = ceil(fraction * len(records))
func cut(records []model.RelationRecord, fraction float64, rng *rand.Rand) (keep, heldOut []model.RelationRecord) {
	n := len(records)
	if n == 0 {
		return nil, nil
	}

	nHeld := int(math.Ceil(fraction*float64(n) - ratioEpsilon))
	nHeld = max(0, min(n, nHeld))

	perm := rng.Perm(n)
	heldOut = make([]model.RelationRecord, 0, nHeld)
	keep = make([]model.RelationRecord, 0, n-nHeld)
	for i, idx := range perm {
		if i < nHeld {
			heldOut = append(heldOut, records[idx])
		} else {
			keep = append(keep, records[idx])
		}
	}
	return keep, heldOut
}
