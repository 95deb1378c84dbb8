package engine

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Dice is the only source of randomness in a match. Implementations must be
// safe for use by several matches at once.
type Dice interface {
	// Uniform returns a value in [lo, hi].
	Uniform(lo, hi float64) float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// RandDice wraps a seeded *rand.Rand behind a mutex.
type RandDice struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewDice returns dice seeded with seed, or with the clock when seed is 0.
func NewDice(seed int64) *RandDice {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandDice{r: rand.New(rand.NewSource(seed))}
}

func (d *RandDice) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	d.mu.Lock()
	f := d.r.Float64()
	d.mu.Unlock()
	return lo + f*(hi-lo)
}

func (d *RandDice) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.r.Intn(n)
}

// Fixed always lands on the same spot: Frac of the way through every uniform
// range and Int (mod n) for every integer draw.
type Fixed struct {
	Frac float64
	Int  int
}

func (f Fixed) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + f.Frac*(hi-lo)
}

func (f Fixed) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return ((f.Int % n) + n) % n
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
