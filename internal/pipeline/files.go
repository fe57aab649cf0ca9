package pipeline

import (
	"context"
	"fmt"

	"github.com/mgpai22/babel/internal/intertitle"
	"github.com/mgpai22/babel/internal/subtitle"
	"github.com/mgpai22/babel/internal/video"
)

// opens a video file as a frame source, the duration cap bounds extraction
func (p *Pipeline) OpenVideo(ctx context.Context, path string, tempDir string) (*video.FileSource, error) {
	src, err := video.Open(ctx, path, video.Options{
		DurationCap: p.opts.DurationCap,
		TempDir:     tempDir,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFrameSource, path, err)
	}
	p.logger.Debugw("frame source opened",
		"frame_rate", src.FrameRate(),
		"frame_count", src.FrameCount(),
		"duration", src.Info().Duration,
	)
	return src, nil
}

// DetectFile runs recognition and segmentation on a video file.
func (p *Pipeline) DetectFile(ctx context.Context, path string, tempDir string) ([]intertitle.Event, error) {
	src, err := p.OpenVideo(ctx, path, tempDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	return p.Detect(ctx, src)
}

// RunFile runs the full chain on a video file.
func (p *Pipeline) RunFile(ctx context.Context, path string, tempDir string) (*Result, error) {
	events, err := p.DetectFile(ctx, path, tempDir)
	if err != nil {
		return nil, err
	}
	return p.FromEvents(ctx, events)
}

// EventTrack lays out events one record per event, without wrapping, so
// the track can be read back with subtitle.ParseSRT.
func EventTrack(events []intertitle.Event) []subtitle.Cue {
	cues := make([]subtitle.Cue, len(events))
	for i, e := range events {
		cues[i] = subtitle.Cue{Start: e.Start, End: e.End, Line: e.Text}
	}
	return cues
}

// EventsFromSegments restores events from a parsed event track, dropping
// records that cannot be an intertitle.
func EventsFromSegments(segments []subtitle.Segment) []intertitle.Event {
	events := make([]intertitle.Event, 0, len(segments))
	for _, s := range segments {
		if s.Text == "" || s.End <= s.Start {
			continue
		}
		events = append(events, intertitle.Event{Start: s.Start, End: s.End, Text: s.Text})
	}
	return events
}

// WriteCues writes cues in the given format, an empty slice yields an empty file.
func WriteCues(cues []subtitle.Cue, path string, format subtitle.Format) error {
	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}
	if err := writer.Write(cues, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
