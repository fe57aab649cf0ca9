package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync"

	"github.com/mgpai22/babel/internal/intertitle"
	"github.com/mgpai22/babel/internal/logging"
	"github.com/mgpai22/babel/internal/recognize"
	"github.com/mgpai22/babel/internal/video"
)

const defaultRecognitionWorkers = 4

// Sampler turns the frames of a source into recognized samples. Frames are
// recognized in windows of Concurrency frames at a time and handed on in
// frame order.
type Sampler struct {
	Recognizer  recognize.Recognizer
	Filter      intertitle.NoiseFilter
	Concurrency int
	// stop reading once a sample would end past this many seconds, 0 disables
	DurationCap float64
	Logger      *logging.Logger

	err error
}

type recognized struct {
	frame     video.Frame
	fragments []string
	err       error
}

// Err reports the error that ended the last Samples iteration early, if any.
func (s *Sampler) Err() error {
	return s.err
}

// Samples returns a single-use sequence over the grid frames of src. On a
// read or recognition failure the sequence ends and Err reports the cause.
func (s *Sampler) Samples(ctx context.Context, src video.FrameSource) iter.Seq[intertitle.Sample] {
	s.err = nil
	frameRate := src.FrameRate()
	step := intertitle.SampleStep(frameRate)
	interval := intertitle.SampleInterval(frameRate)

	workers := s.Concurrency
	if workers <= 0 {
		workers = defaultRecognitionWorkers
	}
	logger := s.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return func(yield func(intertitle.Sample) bool) {
		done := false
		examined := 0
		for !done {
			window := make([]video.Frame, 0, workers)
			for len(window) < workers {
				frame, err := src.Next(ctx)
				if errors.Is(err, io.EOF) {
					done = true
					break
				}
				if err != nil {
					s.err = fmt.Errorf("read frame: %w", err)
					return
				}
				if frame.Index%step != 0 {
					continue
				}
				offset := float64(frame.Index) / frameRate
				if s.DurationCap > 0 && offset+interval > s.DurationCap {
					done = true
					break
				}
				window = append(window, frame)
			}
			if len(window) == 0 {
				break
			}

			results := s.recognizeWindow(ctx, window)
			for _, r := range results {
				if r.err != nil {
					s.err = fmt.Errorf("%w: frame %d: %w", ErrRecognitionUnavailable, r.frame.Index, r.err)
					return
				}
				sample := intertitle.NewSample(r.frame.Index, r.fragments, s.Filter)
				examined++
				if !yield(sample) {
					return
				}
			}
			logger.Debugw("recognized frames", "frames", examined, "total", src.FrameCount()/step)
		}
	}
}

func (s *Sampler) recognizeWindow(ctx context.Context, window []video.Frame) []recognized {
	results := make([]recognized, len(window))
	var wg sync.WaitGroup
	for i, frame := range window {
		wg.Go(func() {
			fragments, err := s.Recognizer.Recognize(ctx, frame)
			results[i] = recognized{frame: frame, fragments: fragments, err: err}
		})
	}
	wg.Wait()
	return results
}
