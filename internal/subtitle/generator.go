package subtitle

import (
	"strings"
	"unicode/utf8"
)

// Generator reflows translated segments into display cues
type Generator struct {
	WrapWidth int
}

func NewDefaultGenerator() *Generator {
	return &Generator{WrapWidth: DefaultWrapWidth}
}

// converts segments to cues, preserving order; cue numbering is left to the
// writer so it runs across the whole track
func (g *Generator) Generate(segments []Segment) []Cue {
	var cues []Cue
	for _, seg := range segments {
		cues = append(cues, Reflow(seg, g.WrapWidth)...)
	}
	return cues
}

// Reflow wraps seg.Text at width characters and gives each wrapped line an
// equal slice of [seg.Start, seg.End]. The cues are contiguous and their
// union is exactly the segment's interval. Blank text yields no cues.
func Reflow(seg Segment, width int) []Cue {
	lines := Wrap(seg.Text, width)
	if len(lines) == 0 {
		return nil
	}

	points := linspace(seg.Start, seg.End, len(lines)+1)
	cues := make([]Cue, len(lines))
	for i, line := range lines {
		cues[i] = Cue{
			Start: points[i],
			End:   points[i+1],
			Line:  line,
		}
	}
	return cues
}

// Wrap fills lines greedily with whitespace-separated words so that no line
// exceeds width characters. A word longer than width gets a line to itself
// and is not split. width <= 0 uses DefaultWrapWidth.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		lines   []string
		current strings.Builder
		length  int
	)
	for _, word := range words {
		n := utf8.RuneCountInString(word)
		if length > 0 && length+1+n > width {
			lines = append(lines, current.String())
			current.Reset()
			length = 0
		}
		if length > 0 {
			current.WriteByte(' ')
			length++
		}
		current.WriteString(word)
		length += n
	}
	lines = append(lines, current.String())

	return lines
}

// n evenly spaced points from start to end inclusive; the last point is end
// exactly
func linspace(start, end float64, n int) []float64 {
	points := make([]float64, n)
	if n == 1 {
		points[0] = start
		return points
	}
	step := (end - start) / float64(n-1)
	for i := range points {
		points[i] = start + float64(i)*step
	}
	points[n-1] = end
	return points
}
