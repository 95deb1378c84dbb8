package stats

// This file contains helpers around the daily best hit. It complements stats.go.

func dateKey(h Hit) string { return h.At.UTC().Format("2006-01-02") }

// SaveHit keeps h if it beats the current best of its UTC day. Ties keep the
// earlier hit. A zero At is stamped with the tracker's clock.
func (t *Tracker) SaveHit(h Hit) bool {
	if h.Damage <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if h.At.IsZero() {
		h.At = t.now()
	}
	key := dateKey(h)
	if cur, ok := t.dailyMax[key]; ok && cur.Damage >= h.Damage {
		return false
	}
	t.dailyMax[key] = h
	return true
}

// BestHitToday returns today's best hit (UTC) and whether there is one.
func (t *Tracker) BestHitToday() (Hit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.dailyMax[t.now().UTC().Format("2006-01-02")]
	return h, ok
}

// ResetDaily clears the daily best map.
// Intended for tests and dev convenience.
func (t *Tracker) ResetDaily() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.dailyMax {
		delete(t.dailyMax, k)
	}
}
