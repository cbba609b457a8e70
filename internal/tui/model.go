package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stenolex/internal/domain"
	"stenolex/internal/keys"
)

// AnalyzerPort is the TUI-facing subset of the analyzer.
type AnalyzerPort interface {
	Query(keys, letters string, matchAll bool) *domain.Rule
	Converter() *keys.Converter
	RuleName(id domain.RuleID) (string, bool)
}

// Model is the Bubble Tea model for the interactive analysis console.
type Model struct {
	analyzer AnalyzerPort
	input    textinput.Model
	viewport viewport.Model
	result   *domain.Rule
	status   string
	ready    bool
}

// New creates a new console model instance.
func New(analyzer AnalyzerPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "KEYS word  (e.g. TEFT test)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{analyzer: analyzer, input: ti, viewport: vp, status: "Rules loaded. Type a stroke and its word."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				strokes, word, ok := splitQuery(q)
				if !ok {
					m.status = "Need a key string followed by the word it writes."
					return m, nil
				}
				// User strokes cannot be trusted; cleanse before analysis.
				conv := m.analyzer.Converter()
				strokes = conv.ToRTFCRE(conv.Cleanse(strokes))
				m.result = m.analyzer.Query(strokes, word, false)
				m.status = fmt.Sprintf("Analysis of %q", q)
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the console layout and current analysis.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Steno Analysis Console")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	result := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + result + "\n" + input + "\n" + status
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "No analysis yet."
	}
	var b strings.Builder
	b.WriteString(captionStyle.Render(m.result.String()))
	b.WriteString("\n")
	b.WriteString(m.result.Desc)
	b.WriteString("\n\n")
	m.renderMap(&b, m.result, 1)
	return b.String()
}

// renderMap writes the rulemap breakdown as an indented tree, one line per
// child rule, depth-first.
func (m Model) renderMap(b *strings.Builder, r *domain.Rule, depth int) {
	conv := m.analyzer.Converter()
	for _, item := range r.Map {
		child := item.Child
		line := conv.ToRTFCRE(child.Keys) + " → " + child.Letters
		if child.Flags.Has(domain.Unmatched) {
			line = unmatchedStyle.Render(line + "  (unmatched)")
		} else if name, ok := m.analyzer.RuleName(child.ID); ok {
			line += "  " + nameStyle.Render(name)
		}
		if child.Desc != "" {
			line += "  " + descStyle.Render(child.Desc)
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(line)
		b.WriteString("\n")
		m.renderMap(b, child, depth+1)
	}
}

// splitQuery separates the key string from the word. The word may contain
// spaces, so only the first field is taken as keys.
func splitQuery(q string) (strokes, word string, ok bool) {
	i := strings.IndexByte(q, ' ')
	if i < 0 {
		return "", "", false
	}
	strokes = q[:i]
	word = strings.TrimSpace(q[i+1:])
	return strokes, word, word != ""
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	captionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	nameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	descStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unmatchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
