package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLoggerRedirects(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})

	Logf("processed %d trials", 12)
	if got != "processed 12 trials" {
		t.Errorf("Logf output = %q, want %q", got, "processed 12 trials")
	}
}

func TestSetLoggerNilIsNoOp(t *testing.T) {
	SetLogger(nil)
	defer SetLogger(func(format string, v ...interface{}) {})

	// Must not panic.
	Logf("ignored %v", struct{}{})
}
