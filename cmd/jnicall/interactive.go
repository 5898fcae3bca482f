package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openjkit/jni-runtime/descriptor"
	"github.com/openjkit/jni-runtime/registry"
	"github.com/openjkit/jni-runtime/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	methodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	rt       *runtime.Runtime
	libStr   string
	opts     []runtime.Option
	natives  []nativeInfo
	inputs   []textinput.Model
	result   string
	selected int
	focusIdx int
	state    modelState
}

type nativeInfo struct {
	key    registry.Key
	method descriptor.Method
}

type modelState int

const (
	stateSelectNative modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(libStr string, opts []runtime.Option) *interactiveModel {
	return &interactiveModel{
		libStr: libStr,
		opts:   opts,
		state:  stateSelectNative,
	}
}

type loadedMsg struct {
	err     error
	rt      *runtime.Runtime
	natives []nativeInfo
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadRuntime
}

func (m *interactiveModel) loadRuntime() tea.Msg {
	rt, err := runtime.New(m.opts...)
	if err != nil {
		return loadedMsg{err: err}
	}

	for _, path := range splitList(m.libStr) {
		if _, err := rt.LoadLibrary(path); err != nil {
			rt.Close()
			return loadedMsg{err: err}
		}
	}

	keys := rt.Natives(cliThread)
	natives := make([]nativeInfo, 0, len(keys))
	for _, k := range keys {
		parsed, err := descriptor.ParseMethod(k.Desc)
		if err != nil {
			continue
		}
		natives = append(natives, nativeInfo{key: k, method: parsed})
	}
	sort.Slice(natives, func(i, j int) bool {
		a, b := natives[i].key, natives[j].key
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Desc < b.Desc
	})

	return loadedMsg{rt: rt, natives: natives}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.rt != nil {
				m.rt.Close()
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectNative && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectNative && m.selected < len(m.natives)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectNative:
				if len(m.natives) == 0 {
					break
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callNative
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callNative

			case stateShowResult:
				m.state = stateSelectNative
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectNative
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectNative
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rt = msg.rt
		m.natives = msg.natives

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	n := m.natives[m.selected]
	m.inputs = make([]textinput.Model, n.method.Arity())
	for i, p := range n.method.Params {
		ti := textinput.New()
		ti.Placeholder = kindLabel(p)
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callNative() tea.Msg {
	n := m.natives[m.selected]
	raw := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		raw[i] = input.Value()
	}
	args, err := parseArgs(n.method, raw)
	if err != nil {
		return callResultMsg{err: err}
	}
	v, err := m.rt.Call(cliThread, n.key, args)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: formatValue(v)}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.rt == nil {
		return "Loading runtime..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("JNI Call"))
	if m.libStr != "" {
		b.WriteString(" ")
		b.WriteString(m.libStr)
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectNative:
		b.WriteString("Select a native method:\n\n")
		for i, n := range m.natives {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatNative(n)))
			} else {
				b.WriteString(cursor + m.formatNative(n))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		n := m.natives[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", methodStyle.Render(n.key.Class+"."+n.key.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(kindLabel(n.method.Params[i])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		n := m.natives[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", methodStyle.Render(n.key.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatNative(n nativeInfo) string {
	var params []string
	for _, p := range n.method.Params {
		params = append(params, typeStyle.Render(kindLabel(p)))
	}
	ret := ""
	if n.method.Return.Desc != "V" {
		ret = " -> " + typeStyle.Render(kindLabel(n.method.Return))
	}
	return methodStyle.Render(n.key.Class+"."+n.key.Name) +
		"(" + strings.Join(params, ", ") + ")" + ret
}

func kindLabel(f descriptor.Field) string {
	switch f.Desc {
	case "I":
		return "int"
	case "J":
		return "long"
	case "F":
		return "float"
	case "D":
		return "double"
	case "B":
		return "byte"
	case "C":
		return "char"
	case "S":
		return "short"
	case "Z":
		return "boolean"
	case "V":
		return "void"
	default:
		return f.Desc
	}
}

func runInteractive(libStr string, opts []runtime.Option) error {
	p := tea.NewProgram(newInteractiveModel(libStr, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
