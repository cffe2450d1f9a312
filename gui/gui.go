// Package gui is the terminal front end. It paints the document view with
// half-block characters, two image rows per terminal line, and maps keys and
// the mouse wheel to view operations.
package gui

import (
	"context"
	"image"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"imgview/config"
	"imgview/gui/documentview"
	"imgview/gui/uiqueue"
	"imgview/gui/zoomwidget"
	"imgview/img"
	"imgview/imgmgr/document"
	"imgview/ods"
)

const (
	captionHeight = 1
	statusHeight  = 1
	sliderWidth   = 32
)

// queueReadyMsg tells Update that background work has been posted.
type queueReadyMsg struct{}

type errMsg struct{ err error }

// GUI is the bubbletea model. Update and View run on the program goroutine,
// which therefore owns the document view.
type GUI struct {
	cfg   config.Config
	watch bool
	log   *logrus.Entry

	queue *uiqueue.Queue
	view  *documentview.DocumentView
	zoom  *zoomwidget.ZoomWidget
	help  help.Model

	ctx       context.Context //nolint:containedctx // bubbletea owns the model lifecycle
	cancel    context.CancelFunc
	doc       *document.Document
	cancelDoc context.CancelFunc

	width, height int
	frame         *image.NRGBA
	caption       string
	title         string
	status        string

	CaptionStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	InfoStyle    lipgloss.Style
}

// New creates the front end. watch enables reloading when the file changes.
func New(cfg config.Config, watch bool) *GUI {
	ctx, cancel := context.WithCancel(context.Background())
	q := uiqueue.New()
	g := &GUI{
		cfg:    cfg,
		watch:  watch,
		log:    ods.WithField("component", "gui"),
		queue:  q,
		view:   documentview.New(q, ViewOptions(cfg)),
		zoom:   zoomwidget.New(),
		help:   help.New(),
		ctx:    ctx,
		cancel: cancel,

		CaptionStyle: lipgloss.NewStyle().Bold(true).Reverse(true),
		ErrorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		InfoStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}

	dv := g.view
	dv.OnCaptionChanged = func(caption string) { g.caption = caption }
	dv.OnZoomChanged = g.zoom.SetZoom
	dv.OnZoomToFitChanged = g.zoom.SetZoomToFit
	dv.OnMinimumZoomChanged = func(min float64) {
		g.zoom.SetZoomRange(min, dv.MaximumZoom())
	}
	dv.OnAdapterChanged = func() {
		if iv := dv.ImageView(); iv != nil && !cfg.StartZoomToFit {
			iv.SetZoomToFit(false)
		}
	}
	dv.OnCompleted = func() {
		g.zoom.SetZoom(dv.Zoom())
	}
	g.zoom.OnZoomChanged = dv.SetZoom
	return g
}

// Close releases the view and stops the document.
func (g *GUI) Close() {
	g.view.Close()
	g.cancel()
}

// DocumentView returns the document view.
func (g *GUI) DocumentView() *documentview.DocumentView {
	return g.view
}

// Open shows the file at path. It must be called from the program goroutine
// or before the program starts.
func (g *GUI) Open(path string) {
	if g.cancelDoc != nil {
		g.cancelDoc()
	}
	ctx, cancel := context.WithCancel(g.ctx)
	g.cancelDoc = cancel

	doc := document.New(path)
	go doc.Run(ctx)
	g.doc = doc
	g.status = ""
	g.view.OpenDocument(doc)
	doc.Load()

	if g.watch {
		go func() {
			if err := doc.Watch(ctx); err != nil {
				g.log.WithError(err).Warn("cannot watch file")
			}
		}()
	}
}

func waitQueue(q *uiqueue.Queue) tea.Cmd {
	return func() tea.Msg {
		<-q.Ready()
		return queueReadyMsg{}
	}
}

// drain runs the posted work. A panic is logged instead of tearing down the
// terminal.
func (g *GUI) drain() {
	defer func() {
		if err := recover(); err != nil {
			ods.Recover(err)
			g.status = "unexpected error occurred"
		}
	}()
	g.queue.Drain()
}

// Init implements tea.Model.
func (g *GUI) Init() tea.Cmd {
	return waitQueue(g.queue)
}

// Update implements tea.Model.
//
//nolint:ireturn // bubbletea requires returning tea.Model
func (g *GUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.resize(msg.Width, msg.Height)

	case queueReadyMsg:
		g.drain()
		cmd = waitQueue(g.queue)

	case errMsg:
		g.status = msg.err.Error()

	case tea.MouseMsg:
		g.handleMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return g, tea.Quit
		}
		cmd = g.handleKey(msg)
	}
	return g, tea.Batch(cmd, g.titleCmd())
}

func (g *GUI) titleCmd() tea.Cmd {
	if g.caption == g.title {
		return nil
	}
	g.title = g.caption
	return tea.SetWindowTitle(g.caption)
}

// viewRows is the number of terminal lines showing the document.
func (g *GUI) viewRows() int {
	return max(g.height-captionHeight-statusHeight, 0)
}

func (g *GUI) resize(width, height int) {
	g.width, g.height = width, height
	g.help.Width = width - sliderWidth - 1
	size := image.Pt(width, g.viewRows()*2)
	if g.frame == nil || g.frame.Rect.Size() != size {
		g.frame = image.NewNRGBA(image.Rectangle{Max: size})
	}
	g.view.Resize(size)
}

func (g *GUI) scrollBy(d image.Point) {
	g.view.SetPosition(g.view.Position().Add(d))
}

func (g *GUI) transform(t img.Transform) tea.Cmd {
	doc := g.doc
	if doc == nil {
		return nil
	}
	return func() tea.Msg {
		if err := doc.Transform(t); err != nil {
			return errMsg{errors.Wrapf(err, "cannot apply %v", t)}
		}
		return nil
	}
}

func (g *GUI) handleKey(msg tea.KeyMsg) tea.Cmd {
	dv := g.view
	step := g.cfg.ScrollStep
	page := max(dv.Size().Y-step, step)
	switch {
	case key.Matches(msg, keys.ZoomIn):
		dv.ZoomIn(dv.Size().Div(2))
	case key.Matches(msg, keys.ZoomOut):
		dv.ZoomOut(dv.Size().Div(2))
	case key.Matches(msg, keys.ZoomToFit):
		dv.SetZoomToFit(!dv.ZoomToFit())
	case key.Matches(msg, keys.ActualSize):
		dv.ZoomActualSize()
	case key.Matches(msg, keys.SliderDown):
		if dv.CanZoom() {
			g.zoom.Step(-1)
		}
	case key.Matches(msg, keys.SliderUp):
		if dv.CanZoom() {
			g.zoom.Step(1)
		}

	case key.Matches(msg, keys.Left):
		g.scrollBy(image.Pt(-step, 0))
	case key.Matches(msg, keys.Right):
		g.scrollBy(image.Pt(step, 0))
	case key.Matches(msg, keys.Up):
		g.scrollBy(image.Pt(0, -step))
	case key.Matches(msg, keys.Down):
		g.scrollBy(image.Pt(0, step))
	case key.Matches(msg, keys.PageUp):
		g.scrollBy(image.Pt(0, -page))
	case key.Matches(msg, keys.PageDown):
		g.scrollBy(image.Pt(0, page))

	case key.Matches(msg, keys.RotateRight):
		return g.transform(img.TransformRotate90)
	case key.Matches(msg, keys.RotateLeft):
		return g.transform(img.TransformRotate270)
	case key.Matches(msg, keys.FlipX):
		return g.transform(img.TransformFlipX)
	case key.Matches(msg, keys.FlipY):
		return g.transform(img.TransformFlipY)
	case key.Matches(msg, keys.Reload):
		if g.doc != nil {
			g.doc.Load()
		}
	}
	return nil
}

// handleMouse zooms with the wheel around the pointer.
func (g *GUI) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	center := image.Pt(msg.X, (msg.Y-captionHeight)*2)
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		g.view.ZoomIn(center)
	case tea.MouseButtonWheelDown:
		g.view.ZoomOut(center)
	}
}

// View implements tea.Model.
func (g *GUI) View() string {
	if g.width <= 0 || g.height <= 0 {
		return ""
	}
	caption := g.caption
	if caption == "" {
		caption = "imgview"
	}
	top := g.CaptionStyle.Width(g.width).MaxWidth(g.width).Render(caption)

	rows := g.viewRows()
	var body string
	if a, ok := g.view.Adapter().(*documentview.MessageAdapter); ok {
		text, detail, isError := a.Message()
		style := g.InfoStyle
		if isError {
			style = g.ErrorStyle
		}
		msg := style.Render(text)
		if detail != "" {
			msg = lipgloss.JoinVertical(lipgloss.Center, msg, g.InfoStyle.Render(detail))
		}
		body = lipgloss.Place(g.width, rows, lipgloss.Center, lipgloss.Center, msg)
	} else if g.frame != nil && rows > 0 {
		g.view.Paint(g.frame)
		body = halfBlocks(g.frame)
	}

	var left string
	if g.status != "" {
		left = g.ErrorStyle.Render(g.status)
	} else {
		left = g.help.View(keys)
	}
	left = lipgloss.NewStyle().Width(max(g.width-sliderWidth-1, 0)).MaxWidth(max(g.width-sliderWidth-1, 0)).Render(left)
	status := left
	if g.view.CanZoom() {
		status = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", g.zoom.View(sliderWidth))
	}

	if rows == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, top, status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, body, status)
}

// Run shows the file at path until the user quits.
func Run(path string, cfg config.Config, watch bool) error {
	g := New(cfg, watch)
	defer g.Close()
	g.Open(path)

	p := tea.NewProgram(g, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "gui: program failed")
	}
	return nil
}
