package slicer

import "math/rand/v2"

// BatchKind is one entry of the spawn timeline.
type BatchKind uint8

const (
	BatchSafeOnly       BatchKind = iota // one forced safe target
	BatchBombOnly                        // one forced bomb; never placed in a timeline
	BatchTwoWithOneBomb                  // a forced safe target and a forced bomb
	BatchTwo                             // two rolled targets
	BatchThree                           // three rolled targets
	BatchFour                            // four rolled targets
	BatchChain                           // five targets spread over the chain delay
	BatchFastChain                       // five targets spread over half the chain delay
)

func (k BatchKind) String() string {
	switch k {
	case BatchSafeOnly:
		return "safe-only"
	case BatchBombOnly:
		return "bomb-only"
	case BatchTwoWithOneBomb:
		return "two-with-one-bomb"
	case BatchTwo:
		return "two"
	case BatchThree:
		return "three"
	case BatchFour:
		return "four"
	case BatchChain:
		return "chain"
	case BatchFastChain:
		return "fast-chain"
	default:
		return "unknown"
	}
}

// openingBatches is the fixed start of every timeline.
var openingBatches = [...]BatchKind{
	BatchSafeOnly,
	BatchSafeOnly,
	BatchTwoWithOneBomb,
	BatchTwoWithOneBomb,
	BatchThree,
	BatchSafeOnly,
	BatchChain,
}

// hardBatches are drawn uniformly after the opening.
var hardBatches = [...]BatchKind{
	BatchTwoWithOneBomb,
	BatchTwo,
	BatchThree,
	BatchFour,
	BatchChain,
	BatchFastChain,
}

// OpeningLen is the number of fixed entries at the start of a timeline.
const OpeningLen = len(openingBatches)

// NewTimeline returns the fixed opening followed by random hard batches.
func NewTimeline(rng *rand.Rand, random int) []BatchKind {
	if random < 0 {
		random = 0
	}
	tl := make([]BatchKind, 0, OpeningLen+random)
	tl = append(tl, openingBatches[:]...)
	for range random {
		tl = append(tl, hardBatches[rng.IntN(len(hardBatches))])
	}
	return tl
}

// SpawnOrder is one spawn of a batch: what to force and how long after the
// dispatch it happens.
type SpawnOrder struct {
	Force Force
	Delay float64
}

// Plan expands a batch into its spawn orders for the given chain delay. It
// has no side effects; the scheduler turns orders with a delay into timer
// callbacks.
func Plan(kind BatchKind, chainDelay float64) []SpawnOrder {
	switch kind {
	case BatchSafeOnly:
		return []SpawnOrder{{Force: ForceNever}}
	case BatchBombOnly:
		return []SpawnOrder{{Force: ForceAlways}}
	case BatchTwoWithOneBomb:
		return []SpawnOrder{{Force: ForceNever}, {Force: ForceAlways}}
	case BatchTwo:
		return simultaneous(2)
	case BatchThree:
		return simultaneous(3)
	case BatchFour:
		return simultaneous(4)
	case BatchChain:
		return chain(chainDelay / 5)
	case BatchFastChain:
		return chain(chainDelay / 10)
	default:
		return nil
	}
}

func simultaneous(n int) []SpawnOrder {
	return make([]SpawnOrder, n)
}

// chain spawns one target now and four more step apart.
func chain(step float64) []SpawnOrder {
	orders := make([]SpawnOrder, 5)
	for i := 1; i < len(orders); i++ {
		orders[i].Delay = step * float64(i)
	}
	return orders
}
