package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Encode writes cues as SubRip records numbered 1..N in input order.
func (w *SRTWriter) Encode(out io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(out)
	for i, cue := range cues {
		// index (1-based)
		fmt.Fprintf(bw, "%d\n", i+1)

		// timestamps: 00:00:00,000 --> 00:00:00,000
		fmt.Fprintf(bw, "%s --> %s\n",
			FormatTimestamp(cue.Start),
			FormatTimestamp(cue.End))

		bw.WriteString(cue.Line)
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

// writes the cues to an SRT file
func (w *SRTWriter) Write(cues []Cue, path string) error {
	return writeFile(w, cues, path)
}

func (w *VTTWriter) Encode(out io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(out)

	// VTT header
	bw.WriteString("WEBVTT\n\n")

	for i, cue := range cues {
		// optional cue identifier
		fmt.Fprintf(bw, "%d\n", i+1)

		// timestamps: 00:00:00.000 --> 00:00:00.000
		fmt.Fprintf(bw, "%s --> %s\n",
			FormatVTTTimestamp(cue.Start),
			FormatVTTTimestamp(cue.End))

		bw.WriteString(cue.Line)
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

// writes the cues to a VTT file
func (w *VTTWriter) Write(cues []Cue, path string) error {
	return writeFile(w, cues, path)
}

// Serialize renders cues as SubRip text.
func Serialize(cues []Cue) string {
	var sb strings.Builder
	_ = (&SRTWriter{}).Encode(&sb, cues)
	return sb.String()
}

func writeFile(w Writer, cues []Cue, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create subtitle file: %w", err)
	}
	if err := w.Encode(f, cues); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return f.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".vtt":
		return FormatVTT
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "srt":
		return FormatSRT, nil
	case "vtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt or vtt", name)
	}
}
