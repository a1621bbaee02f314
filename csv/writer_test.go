package csv

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	kinet "github.com/gymkirchenfeld/ch.kinet.pdflib"
)

func mustNew(t *testing.T, n int, opts ...Option) *Writer {
	t.Helper()
	w, err := New(n, opts...)
	require.NoError(t, err)
	return w
}

func TestNew_InvalidColumnCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		w, err := New(n)
		assert.Nil(t, w)
		assert.True(t, errors.Is(err, ErrInvalidColumnCount), "New(%d) err = %v", n, err)
	}
}

func TestWriter_RowWrap(t *testing.T) {
	w := mustNew(t, 3)
	w.AppendString("a")
	w.AppendInt(1)
	w.AppendFloat(2.5)
	w.AppendString("b")
	w.Append()
	w.AppendInt(7)
	assert.Equal(t, "\"a\";1;2.5\n\"b\";;7\n", w.String())
}

func TestWriter_SingleColumn(t *testing.T) {
	w := mustNew(t, 1)
	w.AppendString("x")
	w.AppendInt(3)
	assert.Equal(t, "\"x\"\n3\n", w.String())
}

func TestWriter_StringQuoting(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		in   string
		want string
	}{
		{"empty", nil, "", "\n"},
		{"plain", nil, "Muster", "\"Muster\"\n"},
		{"embedded quote kept", nil, `say "hi"`, "\"say \"hi\"\"\n"},
		{"embedded quote escaped", []Option{WithQuoteEscaping()}, `say "hi"`, "\"say \"\"hi\"\"\"\n"},
		{"separator not escaped", nil, "a;b", "\"a;b\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := mustNew(t, 1, tt.opts...)
			w.AppendString(tt.in)
			assert.Equal(t, tt.want, w.String())
		})
	}
}

func TestWriter_HideZero(t *testing.T) {
	w := mustNew(t, 4)
	w.SetHideZero(true)
	w.AppendInt(0)
	w.AppendFloat(0)
	w.AppendInt(5)
	w.AppendFloat(-1.25)
	assert.Equal(t, ";;5;-1.25\n", w.String())

	w.SetHideZero(false)
	w.AppendInt(0)
	w.AppendFloat(0)
	w.Append()
	w.Append()
	assert.Equal(t, ";;5;-1.25\n0;0;;\n", w.String())
}

func TestWriter_FloatFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{0.1, "0.1"},
		{1234567.5, "1234567.5"},
		{1e21, "1000000000000000000000"},
	}
	for _, tt := range tests {
		w := mustNew(t, 1)
		w.AppendFloat(tt.in)
		assert.Equal(t, tt.want+"\n", w.String(), "AppendFloat(%v)", tt.in)
	}
}

func TestWriter_AppendDate(t *testing.T) {
	w := mustNew(t, 2)
	w.AppendDate(time.Date(2024, time.March, 5, 13, 0, 0, 0, time.UTC))
	w.AppendDate(time.Time{})
	assert.Equal(t, "05.03.2024;\n", w.String())
}

func TestNewWithHeaders(t *testing.T) {
	w, err := NewWithHeaders([]string{"Name", "Vorname", "Note"})
	require.NoError(t, err)
	w.AppendString("Muster")
	w.AppendString("Anna")
	w.AppendFloat(5.5)

	rows := strings.Split(strings.TrimSuffix(w.String(), "\n"), "\n")
	want := []string{`"Name";"Vorname";"Note"`, `"Muster";"Anna";5.5`}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestNewWithHeaders_Empty(t *testing.T) {
	_, err := NewWithHeaders(nil)
	assert.ErrorIs(t, err, ErrInvalidColumnCount)
}

func TestWriter_ToData(t *testing.T) {
	w := mustNew(t, 2)
	w.AppendString("a")
	w.AppendInt(1)

	p, err := w.ToData("grades")
	require.NoError(t, err)
	assert.Equal(t, kinet.CSV, p.Kind())
	assert.Equal(t, "grades.csv", p.FileName())
	assert.Equal(t, "\"a\";1\n", string(p.Bytes()))
	assert.Equal(t, w.Len(), p.Len())
	assert.Equal(t, "text/csv; charset=utf-8", p.MimeType())

	w.AppendString("later")
	assert.Equal(t, "\"a\";1\n", string(p.Bytes()))
}

func TestWriter_ToDataEncoding(t *testing.T) {
	w := mustNew(t, 1, WithEncoding(charmap.Windows1252))
	w.AppendString("Müller €")

	p, err := w.ToData("")
	require.NoError(t, err)
	assert.Equal(t, []byte{'"', 'M', 0xFC, 'l', 'l', 'e', 'r', ' ', 0x80, '"', '\n'}, p.Bytes())
	assert.True(t, strings.HasPrefix(p.FileName(), "export-"))
	assert.Equal(t, "windows-1252", p.Charset())
	assert.Equal(t, "text/csv; charset=windows-1252", p.MimeType())
}
