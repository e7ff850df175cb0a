package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/contrastanim/internal/animation"
	"github.com/san-kum/contrastanim/internal/oscillator"
	"github.com/san-kum/contrastanim/internal/render"
)

const (
	headerHeight  = 1
	toolbarHeight = 2
	maxListed     = 8
)

func (m model) View() string {
	if m.width == 0 {
		return "starting..."
	}

	title := m.style.title.Render("Image Contrast Animator")
	var body string
	if m.viewer.Expanded() {
		body = m.expandedView()
	} else {
		body = m.galleryView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, m.footer())
}

func (m model) footerHeight() int {
	return 1 + lipgloss.Height(m.help.View(m.keys))
}

// imageArea is the cell grid available to the main picture.
func (m model) imageArea() (cols, rows int) {
	rows = m.height - headerHeight - m.footerHeight()
	if m.viewer.Expanded() {
		cols = m.width
		if m.viewer.Toolbar() {
			rows -= toolbarHeight
		}
		if m.viewer.Magnifier() {
			lc, _ := m.lensCells()
			cols -= lc + 3
		}
	} else {
		cols = m.width - sidebarWidth - 3
	}
	return max(cols, 1), max(rows, 1)
}

func (m model) lensCells() (cols, rows int) {
	sx, sy := m.mode.PixelSize(1, 1)
	size := m.lens.Size
	if size <= 0 {
		size = render.DefaultLens.Size
	}
	return (size + sx - 1) / sx, (size + sy - 1) / sy
}

func (m model) galleryView() string {
	side := m.style.panel.Width(sidebarWidth).Render(m.settings())

	cols, rows := m.imageArea()
	var preview string
	if fitted := m.fitted(); fitted != nil {
		preview = m.mode.Encode(render.Contrast(fitted, m.viewer.Animation().Contrast()))
	} else {
		preview = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center,
			m.style.muted.Render("No images loaded. Press o to open images."))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, side, " ", preview)
}

func (m model) settings() string {
	anim := m.viewer.Animation()
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(m.style.label.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Contrast", m.style.value.Render(fmt.Sprintf("%.1f%%", anim.Contrast())))
	row("Speed", m.style.value.Render(fmt.Sprintf("%.1fx", anim.Speed())))
	row("State", m.phase(anim.Phase()))
	row("Direction", m.direction(anim.Direction()))
	b.WriteString("\n")

	g := m.viewer.Gallery()
	b.WriteString(m.style.label.Render(m.viewer.LoadedLabel()))
	if m.viewer.Loading() {
		b.WriteString(m.style.paused.Render("  loading..."))
	}
	b.WriteString("\n")
	for i, img := range g.Images() {
		if i == maxListed {
			b.WriteString(m.style.muted.Render(fmt.Sprintf("  +%d more", g.Len()-maxListed)))
			b.WriteString("\n")
			break
		}
		name := truncate(img.Name, sidebarWidth-4)
		if i == g.Selected() {
			b.WriteString(m.style.value.Render("▸ " + name))
		} else {
			b.WriteString(m.style.muted.Render("  " + name))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.sparkline())
	return b.String()
}

func (m model) sparkline() string {
	if len(m.history) < 2 {
		return m.style.muted.Render("no history yet")
	}
	return asciigraph.Plot(m.history,
		asciigraph.Height(5),
		asciigraph.Width(sidebarWidth-8),
		asciigraph.LowerBound(oscillator.Min),
		asciigraph.UpperBound(oscillator.Max),
		asciigraph.Precision(0),
	)
}

func (m model) expandedView() string {
	fitted := m.fitted()
	if fitted == nil {
		return ""
	}
	anim := m.viewer.Animation()
	contrast := anim.Contrast()
	picture := m.mode.Encode(render.Contrast(fitted, contrast))

	if m.viewer.Magnifier() {
		lc, lr := m.lensCells()
		var lens string
		if m.viewer.ProbeVisible() {
			p := m.viewer.Probe()
			lens = m.mode.Encode(render.Contrast(render.Magnify(fitted, p.X, p.Y, m.lens), contrast))
		} else {
			lens = lipgloss.Place(lc, lr, lipgloss.Center, lipgloss.Center, m.style.muted.Render("move the\npointer"))
		}
		picture = lipgloss.JoinHorizontal(lipgloss.Top, picture, " ", m.style.lens.Render(lens))
	}

	cols, rows := m.imageArea()
	picture = lipgloss.NewStyle().Width(cols).Height(rows).Render(picture)
	if !m.viewer.Toolbar() {
		return picture
	}

	magnifier := "off"
	if m.viewer.Magnifier() {
		magnifier = "on"
	}
	bar := strings.Join([]string{
		m.style.value.Render("◀ " + m.viewer.Position() + " ▶"),
		m.style.label.Render("contrast ") + m.style.value.Render(fmt.Sprintf("%.1f%%", contrast)),
		m.style.label.Render("speed ") + m.style.value.Render(fmt.Sprintf("%.1fx", anim.Speed())),
		m.phase(anim.Phase()),
		m.style.label.Render("magnifier ") + m.style.value.Render(magnifier),
		m.style.muted.Render("esc close"),
	}, "   ")
	return lipgloss.JoinVertical(lipgloss.Left, picture, m.style.toolbar.Width(m.width).Render(bar))
}

func (m model) footer() string {
	var status string
	switch {
	case m.prompting:
		status = m.style.prompt.Render("open: ") + m.prompt.View()
	case m.notice != "":
		status = m.style.notice.Render(m.notice)
	case m.viewer.Loading():
		status = m.spinner.View() + m.style.paused.Render(" Loading images...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys))
}

func (m model) phase(p animation.Phase) string {
	switch p {
	case animation.Running:
		return m.style.running.Render("● running")
	case animation.Paused:
		return m.style.paused.Render("⏸ paused")
	}
	return m.style.stopped.Render("○ stopped")
}

func (m model) direction(d oscillator.Direction) string {
	if d == oscillator.Increasing {
		return m.style.value.Render("▲ " + d.String())
	}
	return m.style.value.Render("▼ " + d.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
