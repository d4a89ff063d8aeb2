// Package repl implements the interactive rule evaluation session.
package repl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/verdict/engine"
)

const maxEntries = 100

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run starts the interactive session with the given symbol table and
// timezone. It blocks until the user exits or ctx is canceled.
func Run(ctx context.Context, symbols map[string]any, loc *time.Location) error {
	m := newModel(symbols, loc)

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

// entry is one evaluated input and its rendition.
type entry struct {
	input  string
	output string
	failed bool
}

type model struct {
	input    textinput.Model
	history  *history
	complete *completer
	resolver engine.MapResolver
	loc      *time.Location
	entries  []entry
	matches  []string
}

func newModel(symbols map[string]any, loc *time.Location) model {
	input := textinput.New()
	input.Prompt = promptStyle.Render("» ")
	input.Placeholder = "rule expression"
	input.Focus()

	resolver := engine.MapResolver(symbols)

	return model{
		input:    input,
		history:  newHistory(maxEntries),
		complete: newCompleter(resolver),
		resolver: resolver,
		loc:      loc,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}

		m.entries = append(m.entries, m.evaluate(text))
		if len(m.entries) > maxEntries {
			m.entries = m.entries[len(m.entries)-maxEntries:]
		}

		m.history.Add(text)
		m.input.Reset()
		m.matches = nil

		return m, nil

	case tea.KeyUp:
		if prev, ok := m.history.Prev(m.input.Value()); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}

		return m, nil

	case tea.KeyDown:
		if next, ok := m.history.Next(); ok {
			m.input.SetValue(next)
			m.input.CursorEnd()
		}

		return m, nil

	case tea.KeyTab:
		m.applyCompletion()

		return m, nil
	}

	m.matches = nil

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// applyCompletion completes the word under the cursor. A unique match is
// inserted; multiple matches are listed below the prompt.
func (m *model) applyCompletion() {
	text := m.input.Value()

	head, word := splitLastWord(text)
	if word == "" {
		return
	}

	matches := m.complete.complete(word)

	switch len(matches) {
	case 0:
		m.matches = nil
	case 1:
		m.input.SetValue(head + matches[0])
		m.input.CursorEnd()
		m.matches = nil
	default:
		m.matches = matches
	}
}

func (m model) evaluate(text string) entry {
	rule, err := engine.New(text,
		engine.WithTimezone(m.loc),
		engine.WithTypeHints(m.resolver),
	)
	if err != nil {
		return entry{input: text, output: err.Error(), failed: true}
	}

	result, err := rule.Evaluate(m.resolver)
	if err != nil {
		return entry{input: text, output: err.Error(), failed: true}
	}

	return entry{input: text, output: result.String()}
}

func (m model) View() string {
	var b strings.Builder

	for _, e := range m.entries {
		b.WriteString(promptStyle.Render("» "))
		b.WriteString(inputStyle.Render(e.input))
		b.WriteByte('\n')

		style := resultStyle
		if e.failed {
			style = errorStyle
		}

		b.WriteString(style.Render(e.output))
		b.WriteByte('\n')
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	if len(m.matches) > 0 {
		b.WriteString(hintStyle.Render(strings.Join(m.matches, "  ")))
		b.WriteByte('\n')
	}

	b.WriteString(hintStyle.Render(
		fmt.Sprintf("%d symbols loaded · tab completes · ctrl+d exits",
			len(m.resolver)),
	))
	b.WriteByte('\n')

	return b.String()
}

// splitLastWord splits text before the trailing symbol word, returning the
// untouched head and the word itself.
func splitLastWord(text string) (head, word string) {
	end := len(text)

	start := end
	for start > 0 {
		c := text[start-1]
		if c == '_' || c == '$' ||
			('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') ||
			('0' <= c && c <= '9') {
			start--

			continue
		}

		break
	}

	return text[:start], text[start:end]
}
