package intertitle

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// one sub-sampled frame's recognition outcome
type Sample struct {
	FrameIndex int
	Text       string
	Recognized bool
}

// NewSample builds a sample from the recognizer's fragments for one frame.
// Fragments are NFC-normalized and whitespace-collapsed, blank and noise
// fragments are dropped, and the rest are joined with single spaces. The
// sample is unrecognized when nothing survives.
func NewSample(frameIndex int, fragments []string, filter NoiseFilter) Sample {
	kept := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = normalizeFragment(fragment)
		if fragment == "" || !filter.IsContent(fragment) {
			continue
		}
		kept = append(kept, fragment)
	}
	if len(kept) == 0 {
		return Sample{FrameIndex: frameIndex}
	}
	return Sample{
		FrameIndex: frameIndex,
		Text:       strings.Join(kept, " "),
		Recognized: true,
	}
}

func normalizeFragment(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
