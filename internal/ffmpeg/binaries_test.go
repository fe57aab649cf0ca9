package ffmpeg

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestBinaryName(t *testing.T) {
	tests := map[string]string{
		"ffmpeg":      "ffmpeg",
		"FFMPEG.EXE":  "ffmpeg",
		"ffprobe":     "ffprobe",
		"ffprobe.exe": "ffprobe",
		"ffplay":      "",
		"README.txt":  "",
	}
	for entry, want := range tests {
		if got := binaryName(entry); got != want {
			t.Errorf("binaryName(%q) = %q, want %q", entry, got, want)
		}
	}
}

func TestAssetForPlatform(t *testing.T) {
	got, err := assetForPlatform("linux", "amd64")
	if err != nil {
		t.Fatalf("assetForPlatform: %v", err)
	}
	if got != "ffmpeg-6.1-linux-64.zip" {
		t.Errorf("asset = %q", got)
	}
	if _, err := assetForPlatform("plan9", "386"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestLookupPrefersEnv(t *testing.T) {
	t.Setenv(envFFmpegPath, "/opt/ffmpeg/bin/ffmpeg")
	if got := lookup(envFFmpegPath, "ffmpeg"); got != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("lookup = %q", got)
	}
}

func TestExtractArchive(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bundle.zip")

	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	for _, name := range []string{"ffmpeg", "ffprobe", "notes.txt"} {
		w, err := zw.Create("bin/" + name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte("binary " + name)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}

	installDir := filepath.Join(dir, "install")
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := extractArchive(archivePath, installDir); err != nil {
		t.Fatalf("extractArchive: %v", err)
	}

	paths := BinaryPaths{
		FFmpeg:  filepath.Join(installDir, "ffmpeg"+executableSuffix()),
		FFprobe: filepath.Join(installDir, "ffprobe"+executableSuffix()),
	}
	if !binariesExist(paths) {
		t.Error("expected both binaries after extraction")
	}
	if fileExists(filepath.Join(installDir, "notes.txt")) {
		t.Error("unexpected non-binary entry extracted")
	}
}
