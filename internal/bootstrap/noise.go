package bootstrap

import (
	"bytes"
	"io"
)

// npm prefixes it writes to stderr regardless of success. These lines carry
// no signal for a migration run and are dropped; everything else, including
// real npm errors, passes through untouched.
var noisePrefixes = [][]byte{
	[]byte("npm warn"),
	[]byte("npm WARN"),
	[]byte("npm notice"),
}

// NoiseFilter is a line-buffered writer that drops npm's cosmetic stderr
// chatter. Filtering never affects control flow: the child's exit code is
// the only success signal.
type NoiseFilter struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewNoiseFilter wraps w.
func NewNoiseFilter(w io.Writer) *NoiseFilter {
	return &NoiseFilter{w: w}
}

// Write buffers input and forwards complete lines that are not noise. It
// always reports the full length consumed so the child process never sees a
// short write.
func (f *NoiseFilter) Write(p []byte) (int, error) {
	f.buf.Write(p)

	for {
		line, err := f.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, keep it buffered for the next write
			f.buf.Write(line)
			break
		}
		if isNoise(line) {
			continue
		}
		if _, err := f.w.Write(line); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Flush forwards any trailing unterminated line. Call after the child exits.
func (f *NoiseFilter) Flush() error {
	if f.buf.Len() == 0 {
		return nil
	}
	line := f.buf.Bytes()
	f.buf.Reset()
	if isNoise(line) {
		return nil
	}
	_, err := f.w.Write(line)
	return err
}

func isNoise(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t")
	for _, prefix := range noisePrefixes {
		if bytes.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
