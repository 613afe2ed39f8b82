package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })
	f()
	return buf.String()
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		print  func(string)
		marker string
	}{
		{"success", Success, "✓"},
		{"error", Error, "✗"},
		{"warn", Warn, "!"},
		{"info", Info, "ℹ"},
		{"step", Step, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capture(t, func() { tt.print("wrote Engine.make") })
			assert.Contains(t, got, tt.marker)
			assert.Contains(t, got, "wrote Engine.make")
		})
	}
}

func TestVerbose(t *testing.T) {
	got := capture(t, func() { Verbose("loading nest.lua") })
	assert.Empty(t, got)

	SetVerbose(true)
	t.Cleanup(func() { SetVerbose(false) })

	got = capture(t, func() { Verbose("loading nest.lua") })
	assert.Contains(t, got, "loading nest.lua")
}
