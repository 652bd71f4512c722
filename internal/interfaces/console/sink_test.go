package console

import (
	"bytes"
	"testing"
	"time"
)

func TestSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewSinkTo(&buf)

	s.WriteLive("\rEUR_USD 1.1")
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	s.WriteSnapshot(ts, "EUR_USD 1.1")
	s.NewLine()

	want := "\rEUR_USD 1.1\n2024-03-01 12:30:00 EUR_USD 1.1\n\n\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
