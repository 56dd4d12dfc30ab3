package entropy

// Scripted replays queued values so tests can pin every roll. Once a queue
// runs dry it falls back to neutral draws: IntN returns 0 and Float64
// returns 0.5, which makes Symmetric rolls exactly zero.
type Scripted struct {
	ints   []int
	floats []float64

	IntDraws   int
	FloatDraws int
}

// NewScripted returns an empty script.
func NewScripted() *Scripted {
	return &Scripted{}
}

// PushPercent queues d100 results, in order.
func (s *Scripted) PushPercent(rolls ...int) *Scripted {
	for _, r := range rolls {
		s.ints = append(s.ints, r-1)
	}
	return s
}

// PushInt queues raw IntN results.
func (s *Scripted) PushInt(values ...int) *Scripted {
	s.ints = append(s.ints, values...)
	return s
}

// PushFloat queues raw Float64 results.
func (s *Scripted) PushFloat(values ...float64) *Scripted {
	s.floats = append(s.floats, values...)
	return s
}

func (s *Scripted) Float64() float64 {
	s.FloatDraws++
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *Scripted) IntN(n int) int {
	s.IntDraws++
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Remaining reports how many queued values have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.ints) + len(s.floats)
}
