package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCoordinatesMarkdown(t *testing.T) {
	md := CoordinatesMarkdown("42", domain.Coordinates{{0, 0}, {10, 0}, {10, 10.5}})

	assert.Contains(t, md, "# Word 42")
	assert.Contains(t, md, "**3 points**, bounding box (0, 0) to (10, 10.5)")
	assert.Contains(t, md, "| 2 | 10 | 10.5 |")

	assert.Contains(t, CoordinatesMarkdown("7", nil), "No coordinates saved")
}

func TestRenderer(t *testing.T) {
	out, err := NewRenderer()("# Title")
	assert.NoError(t, err)
	assert.Contains(t, out, "Title")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}
