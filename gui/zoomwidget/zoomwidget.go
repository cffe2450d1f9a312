// Package zoomwidget implements the zoom slider shown in the status line.
//
// The slider works on a logarithmic scale so that every single step changes
// the zoom by the same ratio.
package zoomwidget

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	magicK      = 1.04
	magicOffset = 16.
	precision   = 100.

	SingleStep = int(precision)
	PageStep   = 3 * SingleStep
)

// SliderValueForZoom maps a zoom factor to a slider position.
func SliderValueForZoom(zoom float64) int {
	return int(precision * (math.Log(zoom)/math.Log(magicK) + magicOffset))
}

// ZoomForSliderValue is the inverse of SliderValueForZoom.
func ZoomForSliderValue(value int) float64 {
	return math.Pow(magicK, float64(value)/precision-magicOffset)
}

// ZoomWidget holds the slider state.
type ZoomWidget struct {
	min, max, value int
	zoom            float64
	zoomToFit       bool

	// OnZoomChanged is called when the user moves the slider.
	OnZoomChanged func(zoom float64)

	Bar   lipgloss.Style
	Knob  lipgloss.Style
	Label lipgloss.Style
}

func New() *ZoomWidget {
	return &ZoomWidget{
		zoom:  1,
		Bar:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Knob:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Label: lipgloss.NewStyle().Width(7).Align(lipgloss.Right),
	}
}

// SetZoomRange updates the slider range. While zoom-to-fit is on the knob
// stays at the minimum.
func (zw *ZoomWidget) SetZoomRange(minZoom, maxZoom float64) {
	zw.min = SliderValueForZoom(minZoom)
	zw.max = SliderValueForZoom(maxZoom)
	if zw.zoomToFit {
		zw.value = zw.min
		return
	}
	zw.value = zw.clamp(zw.value)
}

// SetZoom moves the knob without notifying.
func (zw *ZoomWidget) SetZoom(zoom float64) {
	zw.zoom = zoom
	zw.value = zw.clamp(SliderValueForZoom(zoom))
}

// SetZoomToFit records whether the view is in zoom-to-fit mode.
func (zw *ZoomWidget) SetZoomToFit(on bool) {
	zw.zoomToFit = on
	if on {
		zw.value = zw.min
	}
}

// Value returns the slider position.
func (zw *ZoomWidget) Value() int {
	return zw.value
}

// Range returns the slider bounds.
func (zw *ZoomWidget) Range() (min, max int) {
	return zw.min, zw.max
}

// Step moves the knob by n single steps as if the user did it.
func (zw *ZoomWidget) Step(n int) {
	zw.SetValue(zw.value + n*SingleStep)
}

// SetValue moves the knob as if the user did it.
func (zw *ZoomWidget) SetValue(v int) {
	v = zw.clamp(v)
	zw.value = v
	if zw.OnZoomChanged != nil {
		zw.OnZoomChanged(ZoomForSliderValue(v))
	}
}

func (zw *ZoomWidget) clamp(v int) int {
	if zw.max < zw.min {
		return v
	}
	return min(max(v, zw.min), zw.max)
}

// LabelText formats the zoom as a percentage.
func LabelText(zoom float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(zoom*100)))
}

// View renders the slider using width cells.
func (zw *ZoomWidget) View(width int) string {
	label := zw.Label.Render(LabelText(zw.zoom))
	n := width - lipgloss.Width(label) - 1
	if n < 3 {
		return label
	}
	pos := 0
	if zw.max > zw.min {
		pos = (zw.value - zw.min) * (n - 1) / (zw.max - zw.min)
	}
	return zw.Bar.Render(strings.Repeat("─", pos)) +
		zw.Knob.Render("●") +
		zw.Bar.Render(strings.Repeat("─", n-1-pos)) +
		" " + label
}
