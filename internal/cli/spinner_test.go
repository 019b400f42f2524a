package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner(io.Discard, "Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, io.Discard, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(io.Discard, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Testing success...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")

	if !strings.Contains(buf.String(), "Done!") {
		t.Errorf("output %q should contain the success message", buf.String())
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Testing error...")
	s.Start()
	s.StopWithError("Failed!")

	if !strings.Contains(buf.String(), "Failed!") {
		t.Errorf("output %q should contain the error message", buf.String())
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinner(io.Discard, "Listing 10 projects")
	s.SetMessage("1/10")
	if len(s.message) != len("Listing 10 projects") {
		t.Errorf("shorter message should be padded, got %q", s.message)
	}
	if !strings.HasPrefix(s.message, "1/10") {
		t.Errorf("message = %q", s.message)
	}
}

func TestScanProgress(t *testing.T) {
	s := newSpinner(io.Discard, "Listing 2 projects")
	p := &scanProgress{spinner: s, total: 2}
	p.OnProjectComplete(context.Background(), "a", 3, time.Millisecond, nil)
	p.OnProjectComplete(context.Background(), "b", 0, time.Millisecond, nil)

	if !strings.HasPrefix(s.message, "Listing projects 2/2") {
		t.Errorf("message = %q", s.message)
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, stat{2, "seeds"}, stat{6, "locked"})
	got := buf.String()
	for _, want := range []string{"2", "seeds", "6", "locked", "·"} {
		if !strings.Contains(got, want) {
			t.Errorf("printStats output %q missing %q", got, want)
		}
	}
}
