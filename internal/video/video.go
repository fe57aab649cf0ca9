package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/babel/internal/ffmpeg"
)

// video stream information used to lay out the sampling grid
type Info struct {
	Path       string
	Duration   float64 // seconds
	Width      int
	Height     int
	FrameRate  float64 // rounded to whole frames per second
	FrameCount int
	Codec      string
}

// a decoded frame on disk, identified by its zero-based index in the video
type Frame struct {
	Index int
	Path  string
}

// FrameSource yields frames in increasing index order. Next returns io.EOF
// once the source is exhausted.
type FrameSource interface {
	FrameRate() float64
	FrameCount() int
	Next(ctx context.Context) (Frame, error)
	Close() error
}

// holds options for frame extraction
type Options struct {
	// stop extracting after this many seconds, 0 reads the whole video
	DurationCap float64
	// parent directory for extracted frames, empty uses the system temp dir
	TempDir string
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Streams []struct {
		CodecName    string `json:"codec_name"`
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// reads stream information for the first video stream of a file
func Probe(ctx context.Context, path string) (*Info, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("video file not found: %s", path)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-select_streams", "v:0",
		"-show_streams",
		"-show_format",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbe(out.Bytes())
	if err != nil {
		return nil, err
	}
	info.Path = path
	return info, nil
}

func parseProbe(data []byte) (*Info, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "" && stream.CodecType != "video" {
			continue
		}

		rate := parseRate(stream.RFrameRate)
		if rate <= 0 {
			rate = parseRate(stream.AvgFrameRate)
		}
		rate = math.Round(rate)
		if rate <= 0 {
			return nil, fmt.Errorf("invalid frame rate %q", stream.RFrameRate)
		}

		duration := parseSeconds(probe.Format.Duration)
		if duration <= 0 {
			duration = parseSeconds(stream.Duration)
		}

		count, err := strconv.Atoi(strings.TrimSpace(stream.NbFrames))
		if err != nil || count <= 0 {
			count = int(math.Round(duration * rate))
		}

		return &Info{
			Duration:   duration,
			Width:      stream.Width,
			Height:     stream.Height,
			FrameRate:  rate,
			FrameCount: count,
			Codec:      stream.CodecName,
		}, nil
	}

	return nil, errors.New("no video stream found")
}

// parses ffprobe rationals such as "24000/1001" as well as plain numbers
func parseRate(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	num, den, ok := strings.Cut(value, "/")
	if !ok {
		return parseSeconds(value)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func parseSeconds(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// returns the number of frames between samples, at least one
func gridStep(frameRate float64) int {
	return max(1, int(math.Floor(frameRate/2)))
}

// FileSource serves grid frames extracted from a video file into a
// temporary directory that is removed on Close.
type FileSource struct {
	info   *Info
	dir    string
	files  []string
	step   int
	cursor int
}

// probes a video and extracts every frame on the half-second sampling grid
func Open(ctx context.Context, path string, opts Options) (*FileSource, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(opts.TempDir, "babel-frames-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}

	step := gridStep(info.FrameRate)
	kwargs := ffmpeg.KwArgs{
		"vf":    selectFilter(step),
		"vsync": "passthrough",
	}
	if opts.DurationCap > 0 {
		kwargs["t"] = opts.DurationCap
	}

	if err := ctx.Err(); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	var stderr bytes.Buffer
	err = ffmpeg.Input(path).
		Output(filepath.Join(dir, "frame_%06d.png"), kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("frame extraction failed: %w: %s", err, lastLine(stderr.String()))
	}

	files, err := filepath.Glob(filepath.Join(dir, "frame_*.png"))
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	sort.Strings(files)

	return &FileSource{
		info:  info,
		dir:   dir,
		files: files,
		step:  step,
	}, nil
}

func selectFilter(step int) string {
	return fmt.Sprintf("select='not(mod(n\\,%d))'", step)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (s *FileSource) Info() *Info { return s.info }

func (s *FileSource) FrameRate() float64 { return s.info.FrameRate }

func (s *FileSource) FrameCount() int { return s.info.FrameCount }

func (s *FileSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.cursor >= len(s.files) {
		return Frame{}, io.EOF
	}
	// extracted file k (zero-based) holds source frame k*step
	frame := Frame{Index: s.cursor * s.step, Path: s.files[s.cursor]}
	s.cursor++
	return frame, nil
}

func (s *FileSource) Close() error {
	if s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
		".ogv":  true,
	}
	return videoExts[ext]
}
