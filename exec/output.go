package exec

import (
	"bytes"
	"io"
	"sync"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes os/exec makes
// when stdout and stderr share a destination.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// capture records one stream and optionally copies it to a passthrough writer.
type capture struct {
	syncBuffer
	passthrough io.Writer
}

func newCapture(passthrough io.Writer) *capture {
	return &capture{passthrough: passthrough}
}

func (c *capture) Write(p []byte) (int, error) {
	n, err := c.syncBuffer.Write(p)
	if err != nil || c.passthrough == nil {
		return n, err
	}
	if _, err := c.passthrough.Write(p); err != nil {
		return n, err
	}
	return n, nil
}
