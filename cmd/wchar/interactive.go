package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wchar/mbconv"
	"github.com/wippyai/wchar/numparse"
	"github.com/wippyai/wchar/wctype"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
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

type paramInfo struct {
	name    string
	witType wit.Type
}

// operation is one entry of the interactive catalogue. Arguments reach call
// already converted to the Go type of their wit type.
type operation struct {
	name   string
	result wit.Type
	params []paramInfo
	call   func(args []any) (string, error)
}

var catalogue = []operation{
	{
		name:   "mbrtowc",
		params: []paramInfo{{"bytes", wit.String{}}},
		result: wit.String{},
		call: func(args []any) (string, error) {
			src := unescape(args[0].(string))
			var (
				st  mbconv.State
				out []string
			)
			for off := 0; ; {
				o := mbconv.DecodeRune(src[off:], &st)
				off += o.Consumed
				switch o.Status {
				case mbconv.Produced:
					out = append(out, fmt.Sprintf("U+%04X", o.Rune))
					continue
				case mbconv.Invalid:
					out = append(out, fmt.Sprintf("<invalid %d>", o.Consumed))
					continue
				case mbconv.Incomplete:
					out = append(out, fmt.Sprintf("<incomplete, %d pending>", st.Pending()))
				}
				return strings.Join(out, " "), nil
			}
		},
	},
	{
		name:   "wcrtomb",
		params: []paramInfo{{"code point", wit.U32{}}},
		result: wit.String{},
		call: func(args []any) (string, error) {
			var buf [mbconv.MaxSeqLen]byte
			n, err := mbconv.EncodeRune(buf[:], rune(args[0].(uint32)), nil)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("% x", buf[:n]), nil
		},
	},
	{
		name:   "wcstod",
		params: []paramInfo{{"text", wit.String{}}},
		result: wit.F64{},
		call: func(args []any) (string, error) {
			res := numparse.ParseFloat([]rune(args[0].(string)))
			return fmt.Sprintf("%g (consumed %d)", res.Value, res.Consumed), res.Err()
		},
	},
	{
		name:   "wcstol",
		params: []paramInfo{{"text", wit.String{}}, {"base", wit.S32{}}},
		result: wit.S64{},
		call: func(args []any) (string, error) {
			res, err := numparse.ParseInt([]rune(args[0].(string)), int(args[1].(int32)))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d (consumed %d)", res.Value, res.Consumed), res.Err()
		},
	},
	{
		name:   "wcstoul",
		params: []paramInfo{{"text", wit.String{}}, {"base", wit.S32{}}},
		result: wit.U64{},
		call: func(args []any) (string, error) {
			res, err := numparse.ParseUint([]rune(args[0].(string)), int(args[1].(int32)))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d (consumed %d)", res.Value, res.Consumed), res.Err()
		},
	},
	{
		name:   "iswctype",
		params: []paramInfo{{"char", wit.Char{}}, {"class", wit.String{}}},
		result: wit.Bool{},
		call: func(args []any) (string, error) {
			class, ok := wctype.Lookup(args[1].(string))
			if !ok {
				return "", fmt.Errorf("unknown class %q", args[1])
			}
			return strconv.FormatBool(wctype.Is(args[0].(rune), class)), nil
		},
	},
	{
		name:   "classify",
		params: []paramInfo{{"char", wit.Char{}}},
		result: wit.String{},
		call: func(args []any) (string, error) {
			return describe(args[0].(rune)), nil
		},
	},
	{
		name:   "wcswidth",
		params: []paramInfo{{"text", wit.String{}}},
		result: wit.S32{},
		call: func(args []any) (string, error) {
			return strconv.Itoa(wctype.StringWidth([]rune(args[0].(string)))), nil
		},
	},
}

// unescape interprets \xHH escapes so invalid byte sequences can be typed.
func unescape(s string) []byte {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				out = append(out, byte(v))
				i += 3
				continue
			}
		}
		out = append(out, s[i])
	}
	return out
}

type interactiveModel struct {
	err      error
	result   string
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel() *interactiveModel {
	return &interactiveModel{state: stateSelectFunc}
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callResultMsg:
		m.result, m.err = msg.result, msg.err
		m.state = stateShowResult
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state {
		case stateSelectFunc:
			return m.updateSelect(msg)
		case stateShowResult:
			return m.updateResult(msg)
		}
	}
	if m.state == stateInputArgs {
		return m.updateInputs(msg)
	}
	return m, nil
}

// updateSelect moves through the catalogue and opens the argument form.
func (m *interactiveModel) updateSelect(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.selected = max(m.selected-1, 0)
	case "down", "j":
		m.selected = min(m.selected+1, len(catalogue)-1)
	case "enter":
		m.inputs = newArgInputs(catalogue[m.selected].params)
		m.focusIdx = 0
		m.state = stateInputArgs
		return m, textinput.Blink
	}
	return m, nil
}

// updateInputs routes keys to the focused argument field. Every field sees
// non-key messages so cursors keep blinking.
func (m *interactiveModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			return m, m.callFunction
		case tea.KeyEsc:
			m.state, m.inputs = stateSelectFunc, nil
			return m, nil
		case tea.KeyTab:
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			return m, m.inputs[m.focusIdx].Focus()
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

// updateResult returns to the catalogue on any key but q.
func (m *interactiveModel) updateResult(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "q" {
		return m, tea.Quit
	}
	m.state, m.result, m.err = stateSelectFunc, "", nil
	return m, nil
}

// newArgInputs builds one text field per parameter, placeholder showing the
// WIT type, with the first field focused.
func newArgInputs(params []paramInfo) []textinput.Model {
	inputs := make([]textinput.Model, len(params))
	for i, p := range params {
		in := textinput.New()
		in.Prompt = p.name + ": "
		in.Placeholder = witTypeStr(p.witType)
		in.Width = 40
		if i == 0 {
			in.Focus()
		}
		inputs[i] = in
	}
	return inputs
}

func (m *interactiveModel) callFunction() tea.Msg {
	op := catalogue[m.selected]
	args := make([]any, len(m.inputs))
	for i, input := range m.inputs {
		v, err := convertArg(input.Value(), op.params[i].witType)
		if err != nil {
			return callResultMsg{err: fmt.Errorf("%s: %w", op.params[i].name, err)}
		}
		args[i] = v
	}

	result, err := op.call(args)
	return callResultMsg{result: result, err: err}
}

func convertArg(value string, t wit.Type) (any, error) {
	switch t.(type) {
	case wit.String:
		return value, nil
	case wit.Char:
		if r, err := parseCodePoint(value); err == nil && strings.HasPrefix(strings.ToUpper(value), "U+") {
			return r, nil
		}
		rs := []rune(value)
		if len(rs) != 1 {
			return nil, fmt.Errorf("want one character or U+XXXX, got %q", value)
		}
		return rs[0], nil
	case wit.U32:
		if r, err := parseCodePoint(value); err == nil && strings.HasPrefix(strings.ToUpper(value), "U+") {
			return uint32(r), nil
		}
		v, err := strconv.ParseUint(value, 0, 32)
		return uint32(v), err
	case wit.S32:
		v, err := strconv.ParseInt(value, 10, 32)
		return int32(v), err
	case wit.F64:
		v, err := strconv.ParseFloat(value, 64)
		return v, err
	default:
		return value, nil
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wchar"))
	b.WriteString(" UTF-8 conversion, parsing and classification\n\n")

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select an operation:\n\n")
		for i, op := range catalogue {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + formatOp(op)))
			} else {
				b.WriteString("  " + formatOp(op))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		op := catalogue[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(op.name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(witTypeStr(op.params[i].witType)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		op := catalogue[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(op.name)))
		if m.result != "" {
			b.WriteString(resultStyle.Render(m.result))
			b.WriteString("\n")
		}
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatOp(op operation) string {
	var params []string
	for _, p := range op.params {
		params = append(params, p.name+": "+typeStyle.Render(witTypeStr(p.witType)))
	}
	return funcStyle.Render(op.name) + "(" + strings.Join(params, ", ") + ") -> " + typeStyle.Render(witTypeStr(op.result))
}

func witTypeStr(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.S32:
		return "s32"
	case wit.U32:
		return "u32"
	case wit.S64:
		return "s64"
	case wit.U64:
		return "u64"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
