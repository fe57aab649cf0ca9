package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/mgpai22/babel/internal/intertitle"
	"github.com/mgpai22/babel/internal/logging"
	"github.com/mgpai22/babel/internal/recognize"
	"github.com/mgpai22/babel/internal/subtitle"
	"github.com/mgpai22/babel/internal/translate"
	"github.com/mgpai22/babel/internal/video"
)

var (
	ErrInvalidFrameSource     = errors.New("invalid frame source")
	ErrRecognitionUnavailable = errors.New("text recognition unavailable")
	ErrTranslationFailed      = errors.New("translation failed")
)

// pipeline tuning
type Options struct {
	Segmentation intertitle.Config
	Noise        intertitle.NoiseFilter
	// seconds, 0 reads the whole video
	DurationCap            float64
	RecognitionConcurrency int
	TranslationConcurrency int
	WrapWidth              int
}

func DefaultOptions() Options {
	return Options{
		Segmentation:           intertitle.DefaultConfig(),
		Noise:                  intertitle.DefaultNoiseFilter(),
		DurationCap:            4 * 60 * 60,
		RecognitionConcurrency: defaultRecognitionWorkers,
		TranslationConcurrency: 3,
		WrapWidth:              subtitle.DefaultWrapWidth,
	}
}

// outcome of processing one video or event track
type Result struct {
	Events   []intertitle.Event
	Segments []subtitle.Segment
	Cues     []subtitle.Cue
	// no intertitle was found, Cues is empty
	Empty bool
}

// Pipeline runs recognition, segmentation, translation and reflow for one
// file at a time. A nil translator keeps the recognized text as is.
type Pipeline struct {
	recognizer recognize.Recognizer
	translator translate.Translator
	opts       Options
	logger     *logging.Logger
}

func New(
	recognizer recognize.Recognizer,
	translator translate.Translator,
	opts Options,
	logger *logging.Logger,
) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		recognizer: recognizer,
		translator: translator,
		opts:       opts,
		logger:     logger,
	}
}

// WithLogger returns a copy of the pipeline that logs to logger.
func (p *Pipeline) WithLogger(logger *logging.Logger) *Pipeline {
	cp := *p
	if logger != nil {
		cp.logger = logger
	}
	return &cp
}

// Detect reads the frame source once and returns the intertitle events in
// source language.
func (p *Pipeline) Detect(ctx context.Context, src video.FrameSource) ([]intertitle.Event, error) {
	if p.recognizer == nil {
		return nil, fmt.Errorf("%w: no recognizer configured", ErrRecognitionUnavailable)
	}
	if src.FrameRate() <= 0 {
		return nil, fmt.Errorf("%w: frame rate %v", ErrInvalidFrameSource, src.FrameRate())
	}

	sampler := &Sampler{
		Recognizer:  p.recognizer,
		Filter:      p.opts.Noise,
		Concurrency: p.opts.RecognitionConcurrency,
		DurationCap: p.opts.DurationCap,
		Logger:      p.logger,
	}

	engine := intertitle.NewEngine(p.opts.Segmentation)
	events, err := engine.Process(sampler.Samples(ctx, src), src.FrameRate(), p.opts.DurationCap)
	if err != nil {
		return nil, err
	}
	if err := sampler.Err(); err != nil {
		return nil, err
	}

	p.logger.Infow("intertitles detected",
		"events", len(events),
		"frame_rate", src.FrameRate(),
	)
	return events, nil
}

// Translate converts events into translated segments, one per event, in
// order. Events pass through unchanged when no translator is configured.
func (p *Pipeline) Translate(ctx context.Context, events []intertitle.Event) ([]subtitle.Segment, error) {
	segments := make([]subtitle.Segment, len(events))
	for i, e := range events {
		segments[i] = subtitle.Segment{Start: e.Start, End: e.End, Text: e.Text}
	}
	if p.translator == nil || len(events) == 0 {
		return segments, nil
	}

	texts := make([]string, len(events))
	for i, e := range events {
		texts[i] = e.Text
	}

	translated, err := translate.TranslateTexts(ctx, p.translator, texts, p.opts.TranslationConcurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslationFailed, err)
	}

	for i := range segments {
		segments[i].Text = translated[i]
	}

	p.logger.Infow("intertitles translated", "segments", len(segments))
	return segments, nil
}

// Reflow wraps every segment into display cues.
func (p *Pipeline) Reflow(segments []subtitle.Segment) []subtitle.Cue {
	g := &subtitle.Generator{WrapWidth: p.opts.WrapWidth}
	return g.Generate(segments)
}

// Run executes the full chain on a frame source.
func (p *Pipeline) Run(ctx context.Context, src video.FrameSource) (*Result, error) {
	events, err := p.Detect(ctx, src)
	if err != nil {
		return nil, err
	}
	return p.FromEvents(ctx, events)
}

// FromEvents translates and reflows previously detected events.
func (p *Pipeline) FromEvents(ctx context.Context, events []intertitle.Event) (*Result, error) {
	if len(events) == 0 {
		p.logger.Warnw("no intertitles found, writing empty subtitles")
		return &Result{Empty: true}, nil
	}

	segments, err := p.Translate(ctx, events)
	if err != nil {
		return nil, err
	}

	cues := p.Reflow(segments)
	p.logger.Debugw("captions reflowed", "cues", len(cues), "wrap_width", p.opts.WrapWidth)

	return &Result{
		Events:   events,
		Segments: segments,
		Cues:     cues,
	}, nil
}
