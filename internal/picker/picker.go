// Package picker shows ranked candidates in a small terminal list and returns
// the one the user picks.
package picker

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/timvw/tmux-jump/internal/model"
)

const defaultWidth = 80

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "jump")),
	Cancel: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "cancel")),
}

// Picker runs the chooser on a terminal.
type Picker struct {
	Theme Theme

	in  *os.File
	out *os.File
}

// New returns a Picker reading keys from stdin and drawing on stderr, so
// stdout stays clean for scripts.
func New(theme Theme) *Picker {
	return &Picker{Theme: theme, in: os.Stdin, out: os.Stderr}
}

// Interactive reports whether both ends are terminals.
func (p *Picker) Interactive() bool {
	return isTerminal(p.in) && isTerminal(p.out)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Choose shows ranked and blocks until the user picks or cancels. Without a
// terminal the top-ranked candidate is returned.
func (p *Picker) Choose(ctx context.Context, ranked []model.Candidate) (model.Candidate, bool, error) {
	if len(ranked) == 0 {
		return model.Candidate{}, false, nil
	}
	if !p.Interactive() {
		return ranked[0], true, nil
	}
	return p.run(ctx, ranked, p.in, p.out)
}

func (p *Picker) run(ctx context.Context, ranked []model.Candidate, in io.Reader, out io.Writer) (model.Candidate, bool, error) {
	m := newModel(ranked, p.Theme)
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := prog.Run()
	if err != nil {
		return model.Candidate{}, false, fmt.Errorf("chooser: %w", err)
	}
	return final.(*pickerModel).result()
}

// pickerModel implements tea.Model.
type pickerModel struct {
	items  []model.Candidate
	cursor int
	chosen int // -1 until enter
	done   bool
	width  int
	styles styles
}

func newModel(items []model.Candidate, theme Theme) *pickerModel {
	return &pickerModel{items: items, chosen: -1, styles: newStyles(theme)}
}

func (m *pickerModel) result() (model.Candidate, bool, error) {
	if m.chosen < 0 || m.chosen >= len(m.items) {
		return model.Candidate{}, false, nil
	}
	return m.items[m.chosen], true, nil
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m *pickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, keys.Choose):
		m.chosen = m.cursor
		m.done = true
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	default:
		// 1-9 jumps straight to that row.
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx := int(s[0] - '1'); idx < len(m.items) {
				m.chosen = idx
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *pickerModel) View() string {
	if m.done {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("tmux-jump"))
	b.WriteString("  ")
	b.WriteString(m.styles.hint.Render(hints()))
	b.WriteString("\n")
	b.WriteString(m.styles.rule.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	idWidth := 2
	for _, c := range m.items {
		if w := runewidth.StringWidth(c.PaneID); w > idWidth {
			idWidth = w
		}
	}
	// "> " + "1 " + id + 2 gaps
	rest := width - 4 - idWidth - 4
	if rest < 20 {
		rest = 20
	}
	pathWidth := rest * 60 / 100
	cmdWidth := rest - pathWidth

	for i, c := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		num := " "
		if i < 9 {
			num = fmt.Sprintf("%d", i+1)
		}
		id := runewidth.FillRight(c.PaneID, idWidth)
		path := runewidth.FillRight(truncate(c.Path, pathWidth), pathWidth)
		command := truncate(c.Command, cmdWidth)

		if i == m.cursor {
			b.WriteString(m.styles.selected.Render(fmt.Sprintf("%s%s %s  %s  %s", cursor, num, id, path, command)))
		} else {
			b.WriteString(fmt.Sprintf("%s%s %s  %s  %s", cursor, num,
				m.styles.pane.Render(id), m.styles.path.Render(path), m.styles.command.Render(command)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func hints() string {
	parts := make([]string, 0, 4)
	for _, k := range []key.Binding{keys.Up, keys.Down, keys.Choose, keys.Cancel} {
		h := k.Help()
		parts = append(parts, h.Key+"="+h.Desc)
	}
	return strings.Join(parts, "  ") + "  1-9=pick"
}

// truncate cuts s to at most width terminal cells, marking the cut with "…".
// Paths keep their tail since the leaf directory is the useful part.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return runewidth.Truncate(s, width, "")
	}
	if strings.HasPrefix(s, "/") {
		return "…" + truncateLeft(s, width-1)
	}
	return runewidth.Truncate(s, width, "…")
}

// truncateLeft keeps the rightmost cells of s that fit in width.
func truncateLeft(s string, width int) string {
	runes := []rune(s)
	w := 0
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > width {
			break
		}
		w += rw
		i--
	}
	return string(runes[i:])
}
