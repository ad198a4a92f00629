package obj

// Health tracks hit points. Every mutation clamps to [0, Max] and reaching
// zero is terminal.
type Health struct {
	Max     int
	Current int
	Dead    bool
}

// NewHealth creates a Health with max/current initialized.
func NewHealth(max int) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// Alive reports whether the owner is alive.
func (h *Health) Alive() bool {
	return h != nil && !h.Dead && h.Current > 0
}

// Damage subtracts amount. Returns true if damage was applied.
func (h *Health) Damage(amount int) bool {
	if h == nil || h.Dead || amount <= 0 {
		return false
	}
	h.Set(h.Current - amount)
	return true
}

// Heal restores health up to Max.
func (h *Health) Heal(amount int) {
	if h == nil || h.Dead || amount <= 0 {
		return
	}
	h.Set(h.Current + amount)
}

// Kill drops health to zero.
func (h *Health) Kill() {
	h.Set(0)
}

// Set assigns the current value, clamped to [0, Max].
func (h *Health) Set(v int) {
	if h == nil {
		return
	}
	h.Current = min(max(v, 0), h.Max)
	if h.Current == 0 {
		h.Dead = true
	}
}
