package intertitle

import "unicode"

// DefaultMaxDigitRatio is the digit share above which a fragment is treated
// as a burned-in timecode or frame counter.
const DefaultMaxDigitRatio = 0.5

// classifies recognized fragments as intertitle content or numeric burn-in
type NoiseFilter struct {
	MaxDigitRatio float64
}

func DefaultNoiseFilter() NoiseFilter {
	return NoiseFilter{MaxDigitRatio: DefaultMaxDigitRatio}
}

// IsContent reports whether fragment is genuine text. A fragment is noise
// when more than MaxDigitRatio of its characters are decimal digits. The
// empty string is content.
func (f NoiseFilter) IsContent(fragment string) bool {
	var total, digits int
	for _, r := range fragment {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if total == 0 {
		return true
	}
	return float64(digits)/float64(total) <= f.ratio()
}

func (f NoiseFilter) ratio() float64 {
	if !(f.MaxDigitRatio > 0 && f.MaxDigitRatio <= 1) {
		return DefaultMaxDigitRatio
	}
	return f.MaxDigitRatio
}

// IsContent applies the default noise filter.
func IsContent(fragment string) bool {
	return DefaultNoiseFilter().IsContent(fragment)
}
