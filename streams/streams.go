// Package streams provides message sinks for settings.WithStreams. A sink can
// write to stdout/stderr, drop everything, capture into buffers, or forward
// each message to a slog.Logger.
package streams

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// IOStreams is the contract settings.Configuration writes its messages to.
// Informational messages go to Out; warnings go to ErrOut.
type IOStreams interface {
	Out() io.Writer
	ErrOut() io.Writer
}

// Streams is a plain IOStreams over two writers.
type Streams struct {
	out    io.Writer
	errOut io.Writer
}

func (s Streams) Out() io.Writer    { return s.out }
func (s Streams) ErrOut() io.Writer { return s.errOut }

// Std returns Streams backed by os.Stdout and os.Stderr.
func Std() Streams {
	return Streams{out: os.Stdout, errOut: os.Stderr}
}

// Writers returns Streams writing Out to out and ErrOut to errOut.
func Writers(out, errOut io.Writer) Streams {
	return Streams{out: out, errOut: errOut}
}

// Discard returns Streams that drop all output.
func Discard() Streams {
	return Writers(io.Discard, io.Discard)
}

// lockedBuffer is a mutex-protected bytes.Buffer.
type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func (l *lockedBuffer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.Reset()
}

// Buffers captures output in memory. It is safe for concurrent writers.
type Buffers struct {
	out    lockedBuffer
	errOut lockedBuffer
}

// NewBuffers returns empty Buffers.
func NewBuffers() *Buffers { return &Buffers{} }

func (b *Buffers) Out() io.Writer    { return &b.out }
func (b *Buffers) ErrOut() io.Writer { return &b.errOut }

// Strings returns what has been written to Out and ErrOut so far.
func (b *Buffers) Strings() (out, errOut string) {
	return b.out.String(), b.errOut.String()
}

// Reset empties both buffers.
func (b *Buffers) Reset() {
	b.out.Reset()
	b.errOut.Reset()
}

// slogWriter turns each Write into one log record.
type slogWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w slogWriter) Write(p []byte) (int, error) {
	n := len(p)
	msg := bytes.TrimRight(p, "\n")
	w.l.Log(context.Background(), w.level, string(msg))
	return n, nil
}

// Slog returns Streams that log Out messages at level info and ErrOut
// messages at level warn. A nil logger means slog.Default().
func Slog(l *slog.Logger, info, warn slog.Level) Streams {
	if l == nil {
		l = slog.Default()
	}
	return Streams{
		out:    slogWriter{l: l, level: info},
		errOut: slogWriter{l: l, level: warn},
	}
}
