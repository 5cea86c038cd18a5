package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter normalizes line endings for line based sessions. Reads turn
// \r\n and bare \r into \n; writes turn \n into \r\n.
type crlfReadWriter struct {
	rw io.ReadWriter

	// pendingCR is set when the previous read ended in \r, so a leading \n
	// on the next read belongs to the same line ending.
	pendingCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n == 0 {
		return n, err
	}

	data := p[:n]
	if c.pendingCR && data[0] == '\n' {
		data = data[1:]
	}
	c.pendingCR = len(data) > 0 && data[len(data)-1] == '\r'

	// Telnet sends \r\n, SSH with a PTY sends just \r.
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
	n = copy(p, data)

	if n == 0 && err == nil {
		// Only a split line ending arrived; read again rather than report zero bytes
		return c.Read(p)
	}
	return n, err
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	converted := bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
	_, err := c.rw.Write(converted)
	// Return the original length so callers aren't confused by the size change
	return len(p), err
}
