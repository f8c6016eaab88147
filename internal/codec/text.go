package codec

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"workforce/internal/domain"
)

// TextCodec exports reports for a terminal. The Markdown rendering is laid
// out by glamour; without color the "notty" style is used.
type TextCodec struct {
	color bool
	width int
}

// NewTextCodec creates a new terminal text codec
func NewTextCodec(color bool) *TextCodec {
	return &TextCodec{color: color, width: 100}
}

// Format returns the codec format identifier
func (c *TextCodec) Format() string {
	return "text"
}

// Export renders the report and writes it. If the renderer fails the plain
// Markdown is written instead.
func (c *TextCodec) Export(report *domain.Report, w io.Writer) error {
	md := RenderMarkdown(report)

	out, err := c.render(md)
	if err != nil {
		out = md
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (c *TextCodec) render(md string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	style := glamour.WithStylePath("notty")
	if c.color {
		style = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(c.width))
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
