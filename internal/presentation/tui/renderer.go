package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Style follows the terminal background. Without a usable renderer the
// markdown is returned as is.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// CoordinatesMarkdown describes a persisted annotation as a markdown document.
func CoordinatesMarkdown(wordID domain.WordID, coords domain.Coordinates) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Word %s\n\n", wordID)
	if len(coords) == 0 {
		b.WriteString("_No coordinates saved._\n")
		return b.String()
	}

	minX, minY := coords[0][0], coords[0][1]
	maxX, maxY := minX, minY
	for _, xy := range coords[1:] {
		minX, maxX = min(minX, xy[0]), max(maxX, xy[0])
		minY, maxY = min(minY, xy[1]), max(maxY, xy[1])
	}
	fmt.Fprintf(&b, "**%d points**, bounding box (%g, %g) to (%g, %g)\n\n", len(coords), minX, minY, maxX, maxY)

	b.WriteString("| # | x | y |\n|---|---|---|\n")
	for i, xy := range coords {
		fmt.Fprintf(&b, "| %d | %g | %g |\n", i, xy[0], xy[1])
	}
	return b.String()
}
