package gui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

func termColor(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// halfBlocks renders m two pixel rows per line: the upper pixel is the
// foreground of "▀", the lower one its background. Runs of equal cells share
// one escape sequence.
func halfBlocks(m *image.NRGBA) string {
	var sb strings.Builder
	b := m.Rect
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		cell := func(x int) (top, bottom color.NRGBA) {
			top = m.NRGBAAt(x, y)
			bottom = top
			if y+1 < b.Max.Y {
				bottom = m.NRGBAAt(x, y+1)
			}
			return top, bottom
		}
		for x := b.Min.X; x < b.Max.X; {
			top, bottom := cell(x)
			n := 1
			for x+n < b.Max.X {
				t, bt := cell(x + n)
				if t != top || bt != bottom {
					break
				}
				n++
			}
			style := lipgloss.NewStyle().Foreground(termColor(top)).Background(termColor(bottom))
			sb.WriteString(style.Render(strings.Repeat(halfBlock, n)))
			x += n
		}
	}
	return sb.String()
}
