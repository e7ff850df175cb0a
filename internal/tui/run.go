// Package tui is the terminal front end of the contrast viewer. It binds a
// viewer.Viewer to a bubbletea program: frame callbacks become tea.Tick
// messages, key presses become viewer intents and decoding runs as a
// command off the update loop.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/contrastanim/internal/animation"
	"github.com/san-kum/contrastanim/internal/config"
	"github.com/san-kum/contrastanim/internal/gallery"
	"github.com/san-kum/contrastanim/internal/render"
	"github.com/san-kum/contrastanim/internal/upload"
	"github.com/san-kum/contrastanim/internal/viewer"
)

type Options struct {
	Config *config.Config
	// Paths are loaded as the first upload batch.
	Paths  []string
	Logger *slog.Logger
}

func newModel(ctx context.Context, opts Options) model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	frames := newFrameRequester(cfg.Animation.RefreshRate)
	anim := animation.New(frames, cfg.Animation.MinInterval, log)
	anim.SetSpeed(cfg.Animation.Speed)
	anim.SetValue(cfg.Animation.InitialValue)

	mode, err := render.ParseMode(cfg.Render.Mode)
	if err != nil {
		log.Warn("tui: falling back to block rendering", "error", err)
		mode = render.ModeBlocks
	}

	prompt := textinput.New()
	prompt.Placeholder = "photo.png ~/pictures/*.jpg"
	prompt.CharLimit = 4096

	st := newStyles(GetTheme(cfg.Render.Theme))
	m := model{
		ctx:     ctx,
		viewer:  viewer.New(anim, gallery.New(), log),
		frames:  frames,
		decoder: upload.NewDecoder(cfg.Upload.Workers, log),
		log:     log,
		keys:    defaultKeyMap(),
		help:    help.New(),
		prompt:  prompt,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.prompt)),
		mode:    mode,
		lens:    render.Lens{Size: cfg.Render.LensSize, Zoom: cfg.Render.Zoom},
		style:   st,
		paths:   opts.Paths,
		fit:     &fitCache{},
		reads:   new(uint64),
	}

	// With paths the first successful upload resets the animation, so
	// autostart waits for it.
	if cfg.Animation.Autostart {
		if len(opts.Paths) > 0 {
			m.autostart = true
		} else {
			anim.Start()
		}
	}
	return m
}

// Run opens the viewer and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	m := newModel(ctx, opts)
	defer m.viewer.Teardown()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
