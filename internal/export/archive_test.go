package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orion-ad/guardian/internal/config"
	"github.com/orion-ad/guardian/internal/testutil"
)

func TestArchiver_RunOnce(t *testing.T) {
	tests := []struct {
		format     string
		wantSuffix string
	}{
		{format: "csv", wantSuffix: ".csv"},
		{format: "json", wantSuffix: ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, _ := newTestExporter(t)
			dir := t.TempDir()
			a := NewArchiver(e, DirDownloader{Dir: dir}, Request{Format: tt.format}, nil)

			name, err := a.RunOnce(context.Background())
			if err != nil {
				t.Fatalf("RunOnce() error = %v", err)
			}
			if !strings.HasSuffix(name, tt.wantSuffix) {
				t.Errorf("filename = %s", name)
			}
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("archived file missing: %v", err)
			}
		})
	}
}

func TestArchiver_StartStop(t *testing.T) {
	e, _ := newTestExporter(t)
	a := NewArchiver(e, &testutil.RecordingDownloader{}, Request{Format: "csv"}, nil)

	if err := a.Start("not a schedule"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}

	if err := a.Start("@hourly"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if a.Next().IsZero() {
		t.Error("Next() should report the upcoming run")
	}
	if err := a.Start("@hourly"); err == nil {
		t.Error("second Start should fail")
	}

	a.Stop()
	if !a.Next().IsZero() {
		t.Error("Next() should be zero after Stop")
	}
	a.Stop()
}

func TestNewSink(t *testing.T) {
	sink, err := NewSink(context.Background(), config.ExportConfig{Sink: config.SinkDir, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewSink(dir) error = %v", err)
	}
	if _, ok := sink.Downloader.(DirDownloader); !ok {
		t.Errorf("dir sink downloader = %T", sink.Downloader)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if _, err := NewSink(context.Background(), config.ExportConfig{Sink: "ftp"}); err == nil {
		t.Error("expected error for unknown sink")
	}
}
