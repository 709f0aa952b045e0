package streams

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
)

func TestStd(t *testing.T) {
	s := Std()
	// We won't write to Out/ErrOut to avoid polluting test output.
	if s.Out() != os.Stdout || s.ErrOut() != os.Stderr {
		t.Fatalf("Std() must use os.Stdout and os.Stderr")
	}
}

func TestWriters(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	var s IOStreams = Writers(&outBuf, &errBuf)

	if _, err := io.WriteString(s.Out(), "hello out\n"); err != nil {
		t.Fatalf("Out() write failed: %v", err)
	}
	if _, err := io.WriteString(s.ErrOut(), "hello err\n"); err != nil {
		t.Fatalf("ErrOut() write failed: %v", err)
	}

	if got := outBuf.String(); got != "hello out\n" {
		t.Fatalf("Out buffer = %q, want %q", got, "hello out\n")
	}
	if got := errBuf.String(); got != "hello err\n" {
		t.Fatalf("Err buffer = %q, want %q", got, "hello err\n")
	}
}

func TestDiscard(t *testing.T) {
	s := Discard()
	for _, w := range []io.Writer{s.Out(), s.ErrOut()} {
		n, err := w.Write([]byte("dropped"))
		if err != nil || n != len("dropped") {
			t.Fatalf("Discard write: n=%d err=%v", n, err)
		}
	}
}

func TestBuffers(t *testing.T) {
	b := NewBuffers()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _, _ = io.WriteString(b.Out(), "o") }()
		go func() { defer wg.Done(); _, _ = io.WriteString(b.ErrOut(), "e") }()
	}
	wg.Wait()

	out, errOut := b.Strings()
	if out != strings.Repeat("o", 50) || errOut != strings.Repeat("e", 50) {
		t.Fatalf("Strings() = %q, %q", out, errOut)
	}

	b.Reset()
	if out, errOut := b.Strings(); out != "" || errOut != "" {
		t.Fatalf("after Reset: %q, %q", out, errOut)
	}
}

func TestSlog(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := Slog(l, slog.LevelInfo, slog.LevelWarn)

	msg := "settings: saved to /tmp/x\n"
	n, err := io.WriteString(s.Out(), msg)
	if err != nil || n != len(msg) {
		t.Fatalf("Out write: n=%d err=%v", n, err)
	}
	if _, err := io.WriteString(s.ErrOut(), "settings: warning: rejected\n"); err != nil {
		t.Fatalf("ErrOut write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "level=INFO") || !strings.Contains(lines[0], `msg="settings: saved to /tmp/x"`) {
		t.Fatalf("info record: %q", lines[0])
	}
	if !strings.Contains(lines[1], "level=WARN") || strings.Contains(lines[1], `\n`) {
		t.Fatalf("warn record: %q", lines[1])
	}
}

func TestSlog_NilLoggerUsesDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s := Slog(nil, slog.LevelInfo, slog.LevelWarn)
	_, _ = io.WriteString(s.Out(), "hello\n")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Fatalf("default logger output: %q", buf.String())
	}
}
