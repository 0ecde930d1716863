package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/snapshot"
)

var (
	scrubStatusStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	scrubHelpStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// =============================================================================
// ScrubModel - Interactive time scrubber
// =============================================================================

// frameFunc computes the frame and live data for one interaction.
type frameFunc func(in glyph.Interaction) (*glyph.Frame, *snapshot.Snapshot, error)

// saveFunc writes the frame for in and returns the file it wrote.
type saveFunc func(f *glyph.Frame, in glyph.Interaction) (string, error)

// frameMsg carries a computed frame back into the model.
type frameMsg struct {
	in    glyph.Interaction
	frame *glyph.Frame
	snap  *snapshot.Snapshot
	err   error
}

// savedMsg reports the result of a save.
type savedMsg struct {
	path string
	err  error
}

// ScrubModel is the bubbletea model for stepping through days and times.
type ScrubModel struct {
	In     glyph.Interaction
	Step   time.Duration
	Frame  *glyph.Frame
	Snap   *snapshot.Snapshot
	Err    error
	Status string
	Rows   int

	compute frameFunc
	save    saveFunc
}

// NewScrubModel creates a scrubber starting at in. A nil save disables the
// save key.
func NewScrubModel(in glyph.Interaction, step time.Duration, compute frameFunc, save saveFunc) ScrubModel {
	if step <= 0 {
		step = snapshot.BucketSize
	}
	return ScrubModel{
		In:      in,
		Step:    step,
		Rows:    8,
		compute: compute,
		save:    save,
	}
}

func (m ScrubModel) Init() tea.Cmd {
	return m.load(m.In)
}

func (m ScrubModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			return m.move(-m.Step)
		case "right", "l":
			return m.move(m.Step)
		case "H", "shift+left":
			return m.move(-time.Hour)
		case "L", "shift+right":
			return m.move(time.Hour)
		case "up", "k":
			m.In.Day = (m.In.Day + 1) % 7
			return m, m.load(m.In)
		case "down", "j":
			m.In.Day = (m.In.Day + 6) % 7
			return m, m.load(m.In)
		case "s":
			if m.save == nil || m.Frame == nil {
				return m, nil
			}
			f, in, save := m.Frame, m.In, m.save
			return m, func() tea.Msg {
				path, err := save(f, in)
				return savedMsg{path: path, err: err}
			}
		}
	case frameMsg:
		// Drop results for a position the user already left.
		if msg.in != m.In {
			return m, nil
		}
		m.Frame, m.Snap, m.Err = msg.frame, msg.snap, msg.err
	case savedMsg:
		if msg.err != nil {
			m.Status = "save failed: " + msg.err.Error()
		} else {
			m.Status = "saved " + msg.path
		}
	case tea.WindowSizeMsg:
		m.Rows = msg.Height - 12
		if m.Rows < 3 {
			m.Rows = 3
		}
	}
	return m, nil
}

// move shifts the time of day by d, wrapping within one day.
func (m ScrubModel) move(d time.Duration) (tea.Model, tea.Cmd) {
	day := 24 * time.Hour
	m.In.Time = ((m.In.Time+d)%day + day) % day
	m.Status = ""
	return m, m.load(m.In)
}

func (m ScrubModel) load(in glyph.Interaction) tea.Cmd {
	compute := m.compute
	return func() tea.Msg {
		f, snap, err := compute(in)
		return frameMsg{in: in, frame: f, snap: snap, err: err}
	}
}

func (m ScrubModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.In.Caption()))
	b.WriteString("\n")
	b.WriteString(scrubHelpStyle.Render("←/→ " + m.Step.String() + "  H/L 1h  ↑/↓ day  s save  q quit"))
	b.WriteString("\n\n")

	switch {
	case m.Err != nil:
		b.WriteString(StyleWarning.Render(m.Err.Error()))
		b.WriteString("\n")
	case m.Frame == nil:
		b.WriteString(scrubHelpStyle.Render("computing..."))
		b.WriteString("\n")
	default:
		if m.Snap != nil {
			b.WriteString(StyleValue.Render(m.Snap.EntriesLabel()))
			b.WriteString(scrubHelpStyle.Render(" · "))
			b.WriteString(StyleValue.Render(m.Snap.DelayLabel()))
			b.WriteString("\n")
		}
		b.WriteString(m.segmentTable())
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString(scrubStatusStyle.Render(m.Status))
		b.WriteString("\n")
	}
	return b.String()
}

// segmentTable lists the slowest segments of the current frame.
func (m ScrubModel) segmentTable() string {
	segs := slowest(m.Frame.Segments, m.Rows)
	rows := make([][]string, 0, len(segs))
	for _, sg := range segs {
		rows = append(rows, []string{sg.Name, lineSwatch(sg.Line), fmt.Sprintf("%.2f", *sg.Speed)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(colorValue)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Slowest segments", "Line", "Speed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(segs) {
				return speedStyle(*segs[row].Speed)
			}
			return cellStyle
		})
	return t.Render()
}

// slowest returns up to n segments with a known speed, slowest first.
func slowest(segs []glyph.SegmentGlyph, n int) []glyph.SegmentGlyph {
	var known []glyph.SegmentGlyph
	for _, sg := range segs {
		if sg.Speed != nil {
			known = append(known, sg)
		}
	}
	sort.SliceStable(known, func(i, j int) bool { return *known[i].Speed < *known[j].Speed })
	if len(known) > n {
		known = known[:n]
	}
	return known
}
