package notifier

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/amishk599/boardscan/internal/model"
)

func TestLogNotifier_Notify_zeroJobs(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "count=0") {
		t.Errorf("expected summary line, got %q", buf.String())
	}
}

func TestLogNotifier_Notify_multipleJobs(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	jobs := []model.Job{
		{Company: "wayve", Title: "SDET", Location: "Remote", URL: "https://example.com/1", PostedAt: "2026-02-13T10:00:00Z", Source: model.SourceLever},
		{Company: "acme", Title: "QA Lead", Location: "US", URL: "https://example.com/2", Source: model.SourceGreenhouse},
	}
	if err := n.Notify(jobs); err != nil {
		t.Errorf("Notify(jobs) = %v, want nil", err)
	}

	out := buf.String()
	if strings.Count(out, "msg=match") != 2 {
		t.Errorf("expected 2 match lines, got %q", out)
	}
	if strings.Count(out, "posted_at=") != 1 {
		t.Errorf("posted_at should only be logged when known: %q", out)
	}
	if !strings.Contains(out, "source=Greenhouse") || !strings.Contains(out, "count=2") {
		t.Errorf("unexpected output: %q", out)
	}
}
