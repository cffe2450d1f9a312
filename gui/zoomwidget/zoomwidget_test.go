package zoomwidget

import (
	"math"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSliderMapping(t *testing.T) {
	if v := SliderValueForZoom(1); v != 1600 {
		t.Errorf("SliderValueForZoom(1) = %d, want 1600", v)
	}
	if z := ZoomForSliderValue(1600); math.Abs(z-1) > 1e-12 {
		t.Errorf("ZoomForSliderValue(1600) = %v, want 1", z)
	}
	// One single step is one factor of 1.04.
	if z := ZoomForSliderValue(1700); math.Abs(z-1.04) > 1e-12 {
		t.Errorf("ZoomForSliderValue(1700) = %v, want 1.04", z)
	}
	for _, z := range []float64{0.01, 0.2, 0.5, 1.5, 3, 16} {
		back := ZoomForSliderValue(SliderValueForZoom(z))
		if math.Abs(back-z)/z > 0.001 {
			t.Errorf("round trip of %v = %v", z, back)
		}
	}
}

func TestRangeAndStep(t *testing.T) {
	zw := New()
	var got []float64
	zw.OnZoomChanged = func(z float64) { got = append(got, z) }

	zw.SetZoomRange(0.25, 16)
	lo, hi := zw.Range()
	if lo != SliderValueForZoom(0.25) || hi != SliderValueForZoom(16) {
		t.Fatalf("Range() = %d, %d", lo, hi)
	}
	zw.SetZoom(1)
	if len(got) != 0 {
		t.Error("SetZoom notified")
	}
	zw.Step(1)
	if len(got) != 1 || math.Abs(got[0]-1.04) > 1e-9 {
		t.Fatalf("notifications = %v, want [1.04]", got)
	}
	zw.SetValue(1 << 20)
	if zw.Value() != hi {
		t.Errorf("Value() = %d, want %d", zw.Value(), hi)
	}

	zw.SetZoomToFit(true)
	if zw.Value() != lo {
		t.Errorf("Value() = %d in zoom-to-fit mode, want %d", zw.Value(), lo)
	}
	zw.SetZoomRange(0.5, 16)
	if zw.Value() != SliderValueForZoom(0.5) {
		t.Errorf("Value() = %d after range change, want the new minimum", zw.Value())
	}
}

func TestView(t *testing.T) {
	zw := New()
	zw.SetZoomRange(0.5, 4)
	zw.SetZoom(2)
	s := zw.View(30)
	if w := lipgloss.Width(s); w != 30 {
		t.Errorf("width = %d, want 30", w)
	}
	if LabelText(0.125) != "13%" {
		t.Errorf("LabelText(0.125) = %q", LabelText(0.125))
	}
}
