package subtitle

import (
	"io"
)

// DefaultWrapWidth is the maximum characters per displayed line.
const DefaultWrapWidth = 50

// represents one translated intertitle on the timeline, in seconds
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// represents one displayed line with its own time slice, in seconds
type Cue struct {
	Start float64
	End   float64
	Line  string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// interface for writing cues to files
type Writer interface {
	Encode(w io.Writer, cues []Cue) error
	Write(cues []Cue, path string) error
}
