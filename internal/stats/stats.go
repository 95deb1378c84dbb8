package stats

import (
	"sync"
	"time"
)

// Record is a hero's tally across finished matches, keyed by hero name.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// Hit is one landed blow worth remembering.
type Hit struct {
	Actor  string    `json:"actor"`
	Class  string    `json:"unit_class"`
	Weapon string    `json:"weapon"`
	Target string    `json:"target"`
	Damage float64   `json:"damage"`
	At     time.Time `json:"at"`
}

// Tracker stores hero records and the biggest hit of each day (in-memory).
type Tracker struct {
	mu       sync.Mutex
	records  map[string]Record
	dailyMax map[string]Hit
	now      func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		records:  make(map[string]Record),
		dailyMax: make(map[string]Hit),
		now:      time.Now,
	}
}

// Result values accepted by SaveResult.
const (
	Win = iota
	Loss
	Draw
)

func (t *Tracker) SaveResult(hero string, result int) {
	if hero == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	r := t.records[hero]
	switch result {
	case Win:
		r.Wins++
	case Loss:
		r.Losses++
	default:
		r.Draws++
	}
	t.records[hero] = r
}

func (t *Tracker) GetRecord(hero string) Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.records[hero]
}
