package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_NoColorOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.OK("done")
	p.Error("failed")
	p.Title("Validate", "2 files")
	p.Indent("detail")

	assert.False(t, p.Color())
	assert.Equal(t, "[OK] done\n[ERROR] failed\n[Validate] 2 files\n     detail\n", buf.String())
}

func TestPaint(t *testing.T) {
	assert.Equal(t, "x", Paint(false, Red, "x"))
	assert.Equal(t, Red+"x"+Reset, Paint(true, Red, "x"))
}

func TestIsTTY_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, IsTTY(nil))
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, Red, SeverityColor("error"))
	assert.Equal(t, Yellow, SeverityColor("warning"))
	assert.Equal(t, Blue, SeverityColor("info"))
}
