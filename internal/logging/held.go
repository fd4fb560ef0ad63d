package logging

import (
	"bytes"
	"io"
	"sync"
)

// HeldWriter passes writes through to its destination except between Hold
// and Release, when they are kept in memory. The progress view redraws the
// terminal in place, so log lines wait until it has exited.
type HeldWriter struct {
	mu   sync.Mutex
	dst  io.Writer
	buf  bytes.Buffer
	held bool
}

func NewHeldWriter(dst io.Writer) *HeldWriter {
	return &HeldWriter{dst: dst}
}

func (h *HeldWriter) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.held {
		return h.buf.Write(p)
	}
	return h.dst.Write(p)
}

// Hold starts buffering.
func (h *HeldWriter) Hold() {
	h.mu.Lock()
	h.held = true
	h.mu.Unlock()
}

// Release writes out everything buffered since Hold and goes back to
// passing writes through. It is safe to call more than once.
func (h *HeldWriter) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.held = false
	if h.buf.Len() == 0 {
		return nil
	}
	_, err := h.buf.WriteTo(h.dst)
	h.buf.Reset()
	return err
}
