package gui

import (
	"imgview/config"
	"imgview/gui/documentview"
	"imgview/gui/imageview"
	"imgview/img"
)

// ViewOptions maps the configuration onto the document view settings.
// cfg is expected to be valid.
func ViewOptions(cfg config.Config) documentview.Options {
	view := imageview.DefaultOptions()
	view.Background = cfg.BackgroundColor()
	view.AlphaColor = cfg.AlphaBackgroundColor()
	if cfg.AlphaBackground == config.AlphaColor {
		view.AlphaBackground = imageview.AlphaColor
	}
	view.SmoothBelow = cfg.SmoothBelow
	view.ChunkSize = cfg.ChunkSize
	view.Workers = cfg.Workers
	if cfg.ScaleQuality == config.QualityFast {
		view.Quality = img.ScaleQualityFast
	}
	return documentview.Options{
		View:        view,
		MaximumZoom: cfg.MaximumZoom,
	}
}
