package t2048

import "github.com/vovakirdan/tui-2048/internal/config"

// animPhase is the stage of the move animation.
type animPhase int

const (
	phaseIdle animPhase = iota
	phaseSlide
	phasePop
)

// slidingTile is a tile travelling from one cell to another.
type slidingTile struct {
	From, To Cell
	Value    int
	Merged   bool
}

// position returns the tile's fractional (row, col) at progress t in [0, 1].
func (s slidingTile) position(t float64) (row, col float64) {
	t = easeOutQuad(t)
	row = float64(s.From.Row) + float64(s.To.Row-s.From.Row)*t
	col = float64(s.From.Col) + float64(s.To.Col-s.From.Col)*t
	return row, col
}

// animator plays the slide of an accepted move and then the pop of the
// tile spawned by it. Input is dropped while it is busy.
type animator struct {
	slideTicks int
	popTicks   int

	phase   animPhase
	ticks   int
	sliding []slidingTile
	spawned *TileSpawned // Pops in once the slide is over
}

func newAnimator(cfg config.AnimationConfig) animator {
	return animator{slideTicks: cfg.SlideTicks, popTicks: cfg.PopTicks}
}

// busy reports whether an animation is in flight.
func (a *animator) busy() bool {
	return a.phase != phaseIdle
}

// start begins the slide of moves. spawned may be nil.
func (a *animator) start(moves []TileMove, spawned *TileSpawned) {
	a.sliding = a.sliding[:0]
	for _, m := range moves {
		a.sliding = append(a.sliding, slidingTile{From: m.From, To: m.To, Value: m.Value, Merged: m.Merged})
	}
	a.spawned = spawned
	a.phase = phaseSlide
	a.ticks = 0
}

// step advances the animation by one tick.
func (a *animator) step() {
	if !a.busy() {
		return
	}
	a.ticks++
	if a.ticks < a.duration() {
		return
	}

	if a.phase == phaseSlide && a.spawned != nil {
		a.phase = phasePop
		a.ticks = 0
		return
	}
	a.stop()
}

// duration is the length of the current phase in ticks.
func (a *animator) duration() int {
	if a.phase == phasePop {
		return a.popTicks
	}
	return a.slideTicks
}

// progress returns how far the current phase is, from 0 to 1.
func (a *animator) progress() float64 {
	d := a.duration()
	if d <= 0 {
		return 1
	}
	return min(float64(a.ticks)/float64(d), 1)
}

// popping reports whether the tile at c is still growing in.
func (a *animator) popping(c Cell) bool {
	return a.phase == phasePop && a.spawned != nil && a.spawned.Cell == c && a.progress() < 0.5
}

// stop drops any in-flight animation.
func (a *animator) stop() {
	a.phase = phaseIdle
	a.ticks = 0
	a.sliding = nil
	a.spawned = nil
}

// easeOutQuad decelerates towards the end of the slide.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}
