package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeRecorder struct {
	bytes.Buffer
	closed   bool
	closeErr error
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return c.closeErr
}

func TestWriteAndClose(t *testing.T) {
	out := &closeRecorder{}
	err := writeAndClose(out, func(w io.Writer) error {
		_, err := io.WriteString(w, "page one\n")
		return err
	})
	require.NoError(t, err)
	assert.True(t, out.closed)
	assert.Equal(t, "page one\n", out.String())
}

func TestWriteAndClose_CloseError(t *testing.T) {
	diskFull := errors.New("no space left on device")
	out := &closeRecorder{closeErr: diskFull}
	err := writeAndClose(out, func(w io.Writer) error { return nil })
	require.ErrorIs(t, err, diskFull)
	assert.Contains(t, err.Error(), "closing output file")
}

func TestWriteAndClose_EmitErrorWins(t *testing.T) {
	encodeErr := errors.New("encode failed")
	out := &closeRecorder{closeErr: errors.New("close failed")}
	err := writeAndClose(out, func(w io.Writer) error { return encodeErr })
	require.ErrorIs(t, err, encodeErr)
	assert.True(t, out.closed)
}

func TestWriteResults(t *testing.T) {
	results := []pageResult{{Page: 1, Text: "alpha"}, {Page: 3, Text: "gamma"}}

	tests := []struct {
		format string
		want   string
	}{
		{"text", "alpha\n\f\ngamma\n"},
		{"markdown", "## Page 1\n\nalpha\n\n## Page 3\n\ngamma\n\n"},
		{"json", "[\n  {\n    \"page\": 1,\n    \"text\": \"alpha\"\n  },\n  {\n    \"page\": 3,\n    \"text\": \"gamma\"\n  }\n]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeResults(&buf, tt.format, results))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	err := writeResults(io.Discard, "xml", results)
	assert.ErrorContains(t, err, `unknown format "xml"`)
}
