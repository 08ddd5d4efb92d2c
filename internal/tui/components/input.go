package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Input is a single-line text input field.
type Input struct {
	label       string
	value       string
	placeholder string
	cursorPos   int
	maxLength   int
	focused     bool
	required    bool
	masked      bool
	err         string
}

// NewInput creates an input with the given label.
func NewInput(label string) *Input {
	return &Input{
		label:     label,
		maxLength: 64,
	}
}

// SetValue sets the current value.
func (i *Input) SetValue(v string) *Input {
	i.value = v
	i.cursorPos = len(v)
	return i
}

// SetPlaceholder sets the text shown while empty and unfocused.
func (i *Input) SetPlaceholder(p string) *Input {
	i.placeholder = p
	return i
}

// SetRequired marks the field as required for Validate.
func (i *Input) SetRequired(r bool) *Input {
	i.required = r
	return i
}

// SetMasked renders the value as asterisks, for passwords.
func (i *Input) SetMasked(m bool) *Input {
	i.masked = m
	return i
}

// SetError sets an inline error message.
func (i *Input) SetError(e string) *Input {
	i.err = e
	return i
}

// Focus sets the focus state.
func (i *Input) Focus(focused bool) {
	i.focused = focused
	if focused {
		i.cursorPos = len(i.value)
	}
}

// IsFocused reports the focus state.
func (i *Input) IsFocused() bool {
	return i.focused
}

// Value returns the current value.
func (i *Input) Value() string {
	return i.value
}

// HandleKey handles a key press while focused.
func (i *Input) HandleKey(key string) {
	if !i.focused {
		return
	}

	switch key {
	case "backspace":
		if len(i.value) > 0 && i.cursorPos > 0 {
			i.value = i.value[:i.cursorPos-1] + i.value[i.cursorPos:]
			i.cursorPos--
		}
	case "delete":
		if i.cursorPos < len(i.value) {
			i.value = i.value[:i.cursorPos] + i.value[i.cursorPos+1:]
		}
	case "left":
		if i.cursorPos > 0 {
			i.cursorPos--
		}
	case "right":
		if i.cursorPos < len(i.value) {
			i.cursorPos++
		}
	case "home", "ctrl+a":
		i.cursorPos = 0
	case "end", "ctrl+e":
		i.cursorPos = len(i.value)
	default:
		if len(key) == 1 && len(i.value) < i.maxLength {
			i.value = i.value[:i.cursorPos] + key + i.value[i.cursorPos:]
			i.cursorPos++
		}
	}
}

// Validate checks the required constraint and sets the inline error.
func (i *Input) Validate() bool {
	if i.required && strings.TrimSpace(i.value) == "" {
		i.err = "Required"
		return false
	}
	i.err = ""
	return true
}

// Render renders the input field.
func (i *Input) Render() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Width(14)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#66FF66"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#006600"))

	label := i.label
	if i.required {
		label += "*"
	}
	label += ":"

	shown := i.value
	if i.masked {
		shown = strings.Repeat("*", len(i.value))
	}

	var display string
	switch {
	case shown == "" && i.placeholder != "" && !i.focused:
		display = mutedStyle.Render(i.placeholder)
	case i.focused:
		before := shown[:i.cursorPos]
		after := ""
		if i.cursorPos < len(shown) {
			after = shown[i.cursorPos:]
		}
		display = focusStyle.Render(before + "_" + after)
	default:
		display = valueStyle.Render(shown)
	}

	result := labelStyle.Render(label) + " " + display
	if i.err != "" {
		result += " " + errStyle.Render(i.err)
	}
	return result
}
