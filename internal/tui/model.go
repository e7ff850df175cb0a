package tui

import (
	"context"
	"image"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/contrastanim/internal/gallery"
	"github.com/san-kum/contrastanim/internal/render"
	"github.com/san-kum/contrastanim/internal/scheduler"
	"github.com/san-kum/contrastanim/internal/upload"
	"github.com/san-kum/contrastanim/internal/viewer"
)

const (
	historyLen   = 120
	speedStep    = 0.1
	valueStep    = 5.0
	sidebarWidth = 30
)

type readMsg struct {
	seq   uint64
	files []upload.File
	err   error
}

type uploadMsg struct {
	batch  uint64
	images []gallery.Image
	err    error
}

type model struct {
	ctx     context.Context
	viewer  *viewer.Viewer
	frames  *frameRequester
	decoder *upload.Decoder
	log     *slog.Logger

	keys      keyMap
	help      help.Model
	prompt    textinput.Model
	prompting bool
	spinner   spinner.Model

	mode      render.Mode
	lens      render.Lens
	style     styles
	paths     []string
	autostart bool

	history []float64
	fit     *fitCache
	reads   *uint64
	notice  string

	width  int
	height int
}

// fitCache keeps the current image scaled to the display area so frames
// only pay for the contrast pass.
type fitCache struct {
	valid bool
	index int
	w, h  int
	img   *image.RGBA
}

func (c *fitCache) get(img gallery.Image, index, w, h int) *image.RGBA {
	if c.valid && c.index == index && c.w == w && c.h == h {
		return c.img
	}
	c.valid, c.index, c.w, c.h = true, index, w, h
	c.img = render.Fit(img.Pixels, w, h)
	return c.img
}

func (c *fitCache) invalidate() { c.valid = false }

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.frames.cmd()}
	if len(m.paths) > 0 {
		cmds = append(cmds, m.load(m.paths))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.fit.invalidate()

	case frameMsg:
		anim := m.viewer.Animation()
		if anim.Tick(scheduler.Frame(msg)) {
			m.history = append(m.history, anim.Value())
			if len(m.history) > historyLen {
				m.history = m.history[len(m.history)-historyLen:]
			}
		}

	case readMsg:
		cmd = m.decode(msg)

	case uploadMsg:
		if m.viewer.FinishUpload(msg.batch, msg.images, msg.err) {
			m.fit.invalidate()
			m.history = m.history[:0]
			if m.autostart {
				m.autostart = false
				m.viewer.Animation().Start()
			}
		}

	case tea.MouseMsg:
		m.moveProbe(msg)

	case spinner.TickMsg:
		if m.viewer.Loading() {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case tea.KeyMsg:
		var quit bool
		m, cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}

	default:
		if m.prompting {
			m.prompt, cmd = m.prompt.Update(msg)
		}
	}

	if n, ok := m.viewer.Notice(); ok {
		m.notice = n
	}
	return m, tea.Batch(cmd, m.frames.cmd())
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		m.viewer.Teardown()
		return m, nil, true
	}
	m.notice = ""

	if m.prompting {
		switch msg.Type {
		case tea.KeyEnter:
			paths := expandPaths(strings.Fields(m.prompt.Value()))
			m.closePrompt()
			if len(paths) == 0 {
				m.viewer.Notify("Please select at least one image file.")
				return m, nil, false
			}
			return m, m.load(paths), false
		case tea.KeyEsc:
			m.closePrompt()
			return m, nil, false
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd, false
	}

	if m.viewer.HandleKey(viewerKey(msg)) {
		return m, nil, false
	}

	anim := m.viewer.Animation()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.viewer.Teardown()
		return m, nil, true
	case key.Matches(msg, m.keys.Toggle):
		anim.Toggle()
	case key.Matches(msg, m.keys.Pause):
		anim.TogglePause()
	case key.Matches(msg, m.keys.Faster):
		anim.SetSpeed(anim.Speed() + speedStep)
	case key.Matches(msg, m.keys.Slower):
		anim.SetSpeed(anim.Speed() - speedStep)
	case key.Matches(msg, m.keys.ResetSpeed):
		anim.SetSpeed(1)
	case key.Matches(msg, m.keys.Brighter):
		anim.SetValue(anim.Value() + valueStep)
	case key.Matches(msg, m.keys.Duller):
		anim.SetValue(anim.Value() - valueStep)
	case key.Matches(msg, m.keys.Next):
		m.viewer.Next()
	case key.Matches(msg, m.keys.Previous):
		m.viewer.Previous()
	case key.Matches(msg, m.keys.Expand):
		if !m.viewer.ToggleExpanded() && m.viewer.Gallery().Empty() {
			m.viewer.Notify("Nothing to expand; press o to open images.")
		}
		m.fit.invalidate()
	case key.Matches(msg, m.keys.Toolbar):
		if m.viewer.Expanded() {
			m.viewer.ToggleToolbar()
			m.fit.invalidate()
		}
	case key.Matches(msg, m.keys.Magnifier):
		if m.viewer.Expanded() {
			if !m.viewer.ToggleMagnifier() {
				m.viewer.LeaveProbe()
			}
			m.fit.invalidate()
		}
	case key.Matches(msg, m.keys.Mode):
		if m.mode == render.ModeBlocks {
			m.mode = render.ModeBraille
		} else {
			m.mode = render.ModeBlocks
		}
		m.fit.invalidate()
	case key.Matches(msg, m.keys.Open):
		m.prompting = true
		return m, m.prompt.Focus(), false
	case key.Matches(msg, m.keys.Clear):
		*m.reads++
		m.viewer.Clear()
		m.fit.invalidate()
		m.history = m.history[:0]
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= 9 {
			m.viewer.Select(n - 1)
		}
	}
	return m, nil, false
}

func (m *model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.Reset()
}

// load reads paths inside a command. The files come back as a readMsg
// tagged with the read sequence so a slower, older read cannot win.
func (m model) load(paths []string) tea.Cmd {
	*m.reads++
	seq := *m.reads
	return func() tea.Msg {
		files, err := upload.FromPaths(paths)
		return readMsg{seq: seq, files: files, err: err}
	}
}

// decode starts decoding a finished read off the update loop. The result
// comes back as an uploadMsg tagged with its batch.
func (m model) decode(msg readMsg) tea.Cmd {
	if msg.seq != *m.reads {
		m.log.Debug("tui: stale read dropped", "seq", msg.seq, "current", *m.reads)
		return nil
	}
	if msg.err != nil {
		m.viewer.Notify("Could not read files: %v", msg.err)
		m.log.Warn("tui: read failed", "error", msg.err)
		return nil
	}
	images, batch, ok := m.viewer.BeginUpload(msg.files)
	if !ok {
		return nil
	}
	ctx, dec := m.ctx, m.decoder
	decode := func() tea.Msg {
		decoded, err := dec.Decode(ctx, images)
		return uploadMsg{batch: batch, images: decoded, err: err}
	}
	return tea.Batch(decode, m.spinner.Tick)
}

// moveProbe maps pointer motion over the expanded image to displayed-image
// pixels.
func (m model) moveProbe(msg tea.MouseMsg) {
	if !m.viewer.Expanded() || !m.viewer.Magnifier() {
		return
	}
	if msg.Action != tea.MouseActionMotion {
		return
	}
	fitted := m.fitted()
	if fitted == nil {
		m.viewer.LeaveProbe()
		return
	}

	sx, sy := m.mode.PixelSize(1, 1)
	px, py := msg.X*sx, (msg.Y-headerHeight)*sy
	w, h := fitted.Bounds().Dx(), fitted.Bounds().Dy()
	if px < 0 || py < 0 || px >= w || py >= h || !m.viewer.MoveProbe(px, py, w, h) {
		m.viewer.LeaveProbe()
	}
}

// fitted returns the current image scaled to the image area, or nil when
// nothing is loaded.
func (m model) fitted() *image.RGBA {
	img, ok := m.viewer.Gallery().Current()
	if !ok || img.Pixels == nil {
		return nil
	}
	cols, rows := m.imageArea()
	w, h := m.mode.PixelSize(cols, rows)
	return m.fit.get(img, m.viewer.Gallery().Selected(), w, h)
}

func viewerKey(msg tea.KeyMsg) viewer.Key {
	switch msg.Type {
	case tea.KeyLeft:
		return viewer.KeyLeft
	case tea.KeyRight:
		return viewer.KeyRight
	case tea.KeyEsc:
		return viewer.KeyEscape
	}
	return viewer.KeyOther
}

// expandPaths resolves glob patterns, keeping literal paths that match
// nothing so the read error names them.
func expandPaths(args []string) []string {
	var out []string
	for _, a := range args {
		matches, err := filepath.Glob(a)
		if err != nil || len(matches) == 0 {
			out = append(out, a)
			continue
		}
		out = append(out, matches...)
	}
	return out
}
