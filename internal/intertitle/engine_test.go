package intertitle

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// builds one sample per frame over [from, to) with the same text; empty text
// means nothing recognized
func span(from, to int, text string) []Sample {
	samples := make([]Sample, 0, to-from)
	for i := from; i < to; i++ {
		samples = append(samples, Sample{
			FrameIndex: i,
			Text:       text,
			Recognized: text != "",
		})
	}
	return samples
}

func concat(parts ...[]Sample) []Sample {
	var out []Sample
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestSampleStep(t *testing.T) {
	tests := []struct {
		frameRate float64
		step      int
	}{
		{24, 12},
		{25, 12},
		{30, 15},
		{2, 1},
		{1, 1},
		{0.5, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.frameRate), func(t *testing.T) {
			if got := SampleStep(tt.frameRate); got != tt.step {
				t.Errorf("SampleStep(%v) = %d, want %d", tt.frameRate, got, tt.step)
			}
		})
	}
}

func TestProcessTwoCardsWithGap(t *testing.T) {
	samples := concat(
		span(0, 10, "HELLO WORLD"),
		span(10, 20, ""),
		span(20, 30, "GOODBYE"),
	)

	engine := NewEngine(DefaultConfig())
	events, err := engine.Process(slices.Values(samples), 2, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	want := []Event{
		{Start: 0, End: 5, Text: "HELLO WORLD"},
		{Start: 10, End: 15, Text: "GOODBYE"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessDropsTrailingWhenNotFlushing(t *testing.T) {
	samples := concat(
		span(0, 10, "HELLO WORLD"),
		span(10, 20, ""),
		span(20, 30, "GOODBYE"),
	)

	cfg := DefaultConfig()
	cfg.FlushTrailing = false
	events, err := NewEngine(cfg).Process(slices.Values(samples), 2, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	want := []Event{{Start: 0, End: 5, Text: "HELLO WORLD"}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessIdenticalTextNeverSplits(t *testing.T) {
	samples := span(0, 48, "IL ETAIT UNE FOIS")
	events, err := NewEngine(DefaultConfig()).Process(slices.Values(samples), 24, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	// 24 fps samples every 12 frames: 0, 12, 24, 36
	want := []Event{{Start: 0, End: 2, Text: "IL ETAIT UNE FOIS"}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessFuzzyContinuation(t *testing.T) {
	// one misread character keeps the ratio above 0.9
	samples := []Sample{
		{FrameIndex: 0, Text: "HELLO WORLD", Recognized: true},
		{FrameIndex: 1, Text: "HELLO W0RLD", Recognized: true},
		{FrameIndex: 2, Text: "HELLO WORLD", Recognized: true},
	}
	if r := Ratio("HELLO W0RLD", "HELLO WORLD"); r < DefaultSimilarityThreshold {
		t.Fatalf("fixture ratio %v below threshold", r)
	}

	events, err := NewEngine(DefaultConfig()).Process(slices.Values(samples), 2, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	want := []Event{{Start: 0, End: 1.5, Text: "HELLO WORLD"}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessDissimilarTextSplitsOnce(t *testing.T) {
	samples := concat(
		span(0, 4, "HELLO WORLD"),
		span(4, 8, "GOODBYE"),
	)
	if r := Ratio("GOODBYE", "HELLO WORLD"); r >= DefaultSimilarityThreshold {
		t.Fatalf("fixture ratio %v not below threshold", r)
	}

	events, err := NewEngine(DefaultConfig()).Process(slices.Values(samples), 2, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	want := []Event{
		{Start: 0, End: 2, Text: "HELLO WORLD"},
		{Start: 2, End: 4, Text: "GOODBYE"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessThresholdTieIsContinuation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Similarity = func(a, b string) float64 {
		if a == b {
			return 1
		}
		return 0.9
	}
	samples := []Sample{
		{FrameIndex: 0, Text: "A", Recognized: true},
		{FrameIndex: 1, Text: "B", Recognized: true},
	}

	events, err := NewEngine(cfg).Process(slices.Values(samples), 2, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	want := []Event{{Start: 0, End: 1, Text: "A"}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessDurationCap(t *testing.T) {
	samples := span(0, 10, "TITLE")

	events, err := NewEngine(DefaultConfig()).Process(slices.Values(samples), 2, 3)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	want := []Event{{Start: 0, End: 3, Text: "TITLE"}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessCapStopsConsumption(t *testing.T) {
	consumed := 0
	seq := func(yield func(Sample) bool) {
		for i := 0; i < 100; i++ {
			consumed++
			if !yield(Sample{FrameIndex: i, Text: "X", Recognized: true}) {
				return
			}
		}
	}

	if _, err := NewEngine(DefaultConfig()).Process(seq, 2, 2); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if consumed != 5 {
		t.Errorf("consumed %d samples, want 5", consumed)
	}
}

func TestProcessIgnoresOffGridSamples(t *testing.T) {
	// 4 fps samples every 2 frames; odd frames are off the grid
	samples := []Sample{
		{FrameIndex: 0, Text: "ONE", Recognized: true},
		{FrameIndex: 1, Text: "NOISE CARD", Recognized: true},
		{FrameIndex: 2, Text: "ONE", Recognized: true},
		{FrameIndex: 3},
		{FrameIndex: 4, Text: "TWO", Recognized: true},
	}

	events, err := NewEngine(DefaultConfig()).Process(slices.Values(samples), 4, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	want := []Event{
		{Start: 0, End: 1, Text: "ONE"},
		{Start: 1, End: 1.5, Text: "TWO"},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessRecognizedEmptyTextIsSilence(t *testing.T) {
	samples := []Sample{
		{FrameIndex: 0, Text: "A CARD", Recognized: true},
		{FrameIndex: 1, Text: "", Recognized: true},
	}
	events, err := NewEngine(DefaultConfig()).Process(slices.Values(samples), 2, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	want := []Event{{Start: 0, End: 0.5, Text: "A CARD"}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessNoSamples(t *testing.T) {
	events, err := NewEngine(DefaultConfig()).Process(slices.Values([]Sample(nil)), 24, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
}

func TestProcessOutOfOrder(t *testing.T) {
	samples := []Sample{
		{FrameIndex: 2, Text: "A", Recognized: true},
		{FrameIndex: 1, Text: "A", Recognized: true},
	}
	_, err := NewEngine(DefaultConfig()).Process(slices.Values(samples), 2, 0)
	if !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("expected ErrOutOfOrder, got %v", err)
	}
}

func TestProcessInvalidFrameRate(t *testing.T) {
	for _, rate := range []float64{0, -24} {
		_, err := NewEngine(DefaultConfig()).Process(slices.Values(span(0, 2, "A")), rate, 0)
		if !errors.Is(err, ErrInvalidFrameRate) {
			t.Errorf("rate %v: expected ErrInvalidFrameRate, got %v", rate, err)
		}
	}
}

func TestProcessEventInvariants(t *testing.T) {
	texts := []string{"", "LE DEPART", "LE DEPART", "LA GARE", "", "", "FIN", "FIN", "LA GARE"}
	var samples []Sample
	for i := 0; i < 300; i++ {
		text := texts[(i*7+i/5)%len(texts)]
		samples = append(samples, Sample{FrameIndex: i * 12, Text: text, Recognized: text != ""})
	}

	events, err := NewEngine(DefaultConfig()).Process(slices.Values(samples), 24, 0)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected events")
	}
	for i, e := range events {
		if e.End <= e.Start {
			t.Errorf("event %d: end %v not after start %v", i, e.End, e.Start)
		}
		if e.Text == "" {
			t.Errorf("event %d: empty text", i)
		}
		if i > 0 && e.Start < events[i-1].End {
			t.Errorf("event %d starts at %v before previous end %v", i, e.Start, events[i-1].End)
		}
	}
}

func TestEngineIsReusable(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	samples := span(0, 4, "ENCORE")

	first, err := engine.Process(slices.Values(samples), 2, 0)
	if err != nil {
		t.Fatalf("first Process: %v", err)
	}
	second, err := engine.Process(slices.Values(samples), 2, 0)
	if err != nil {
		t.Fatalf("second Process: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abcd", "bcde", 0.75},
		{"abc", "", 0},
		{"abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); got != tt.want {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
