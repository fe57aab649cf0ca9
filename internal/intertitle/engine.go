package intertitle

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

var (
	ErrInvalidFrameRate = errors.New("frame rate must be a positive number")
	ErrOutOfOrder       = errors.New("samples out of frame order")
)

// one intertitle card: stable text held on screen for [Start, End)
type Event struct {
	Start float64
	End   float64
	Text  string
}

func (e Event) Duration() float64 {
	return e.End - e.Start
}

// segmentation tuning
type Config struct {
	// SimilarityThreshold is the ratio at or above which consecutive samples
	// continue the held paragraph. Boundaries happen only strictly below it.
	SimilarityThreshold float64
	// Similarity defaults to Ratio.
	Similarity SimilarityFunc
	// FlushTrailing emits a paragraph still held when the stream ends.
	FlushTrailing bool
}

func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		Similarity:          Ratio,
		FlushTrailing:       true,
	}
}

// Engine turns a stream of samples into intertitle events. An Engine holds
// no per-run state and may be reused; each Process call owns its own state.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.Similarity == nil {
		cfg.Similarity = Ratio
	}
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		cfg.SimilarityThreshold = DefaultSimilarityThreshold
	}
	return &Engine{cfg: cfg}
}

// SampleStep is the number of source frames between two samples: half the
// frame rate, rounded down, and never less than one.
func SampleStep(frameRate float64) int {
	step := int(math.Floor(frameRate / 2))
	if step < 1 {
		return 1
	}
	return step
}

// SampleInterval is the time in seconds covered by one sample.
func SampleInterval(frameRate float64) float64 {
	return float64(SampleStep(frameRate)) / frameRate
}

// Process consumes samples once, in order, and returns the detected events.
// Only samples on the SampleStep grid are considered. When durationCap is
// positive, processing stops at the first sample whose interval would end
// past it.
func (e *Engine) Process(
	samples iter.Seq[Sample],
	frameRate float64,
	durationCap float64,
) ([]Event, error) {
	if frameRate <= 0 || math.IsNaN(frameRate) || math.IsInf(frameRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrameRate, frameRate)
	}

	step := SampleStep(frameRate)
	interval := float64(step) / frameRate

	var (
		st     state
		events []Event
		last   = -1
	)
	for sample := range samples {
		if sample.FrameIndex < 0 || sample.FrameIndex%step != 0 {
			continue
		}
		if sample.FrameIndex <= last {
			return nil, fmt.Errorf(
				"%w: frame %d after frame %d",
				ErrOutOfOrder,
				sample.FrameIndex,
				last,
			)
		}
		last = sample.FrameIndex

		offset := float64(sample.FrameIndex) / frameRate
		if durationCap > 0 && offset+interval > durationCap {
			break
		}

		if event, ok := st.transition(sample, offset, interval, e.same); ok {
			events = append(events, event)
		}
	}

	if e.cfg.FlushTrailing {
		if event, ok := st.flush(); ok {
			events = append(events, event)
		}
	}

	return events, nil
}

func (e *Engine) same(candidate, held string) bool {
	return e.cfg.Similarity(candidate, held) >= e.cfg.SimilarityThreshold
}

type phase int

const (
	idle phase = iota
	holding
)

// segmentation state for one Process call
type state struct {
	phase    phase
	text     string
	start    float64
	interval float64
	samples  int
}

func (s *state) transition(
	sample Sample,
	offset, interval float64,
	same func(candidate, held string) bool,
) (Event, bool) {
	if !sample.Recognized || sample.Text == "" {
		return s.flush()
	}

	if s.phase == idle {
		s.hold(sample.Text, offset, interval)
		return Event{}, false
	}

	if same(sample.Text, s.text) {
		s.samples++
		return Event{}, false
	}

	event := s.event()
	s.hold(sample.Text, offset, interval)
	return event, true
}

// flush emits the held paragraph, if any, and returns to idle.
func (s *state) flush() (Event, bool) {
	if s.phase != holding || s.samples == 0 {
		*s = state{}
		return Event{}, false
	}
	event := s.event()
	*s = state{}
	return event, true
}

func (s *state) hold(text string, start, interval float64) {
	*s = state{
		phase:    holding,
		text:     text,
		start:    start,
		interval: interval,
		samples:  1,
	}
}

// end is start plus the accumulated duration, never a raw sample timestamp
func (s *state) event() Event {
	return Event{
		Start: s.start,
		End:   s.start + float64(s.samples)*s.interval,
		Text:  s.text,
	}
}
