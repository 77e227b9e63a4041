package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// MessageType selects the colour and status glyph of a Box.
type MessageType int

const (
	InfoMessage MessageType = iota
	SuccessMessage
	WarningMessage
	ErrorMessage
)

const (
	infoPrefix    = "ℹ"
	successPrefix = "✓"
	warningPrefix = "⚠"
	errorPrefix   = "✗"
)

type boxTheme struct {
	color  lipgloss.Color
	prefix string
}

var themes = map[MessageType]boxTheme{
	InfoMessage:    {color: lipgloss.Color("86"), prefix: infoPrefix},
	SuccessMessage: {color: lipgloss.Color("42"), prefix: successPrefix},
	WarningMessage: {color: lipgloss.Color("178"), prefix: warningPrefix},
	ErrorMessage:   {color: lipgloss.Color("196"), prefix: errorPrefix},
}

// Box collects the lines of a bordered status panel, such as the summary
// printed after a website deploy or a bulk object operation.
type Box struct {
	messageType MessageType
	title       string
	content     []string
}

func NewBox(messageType MessageType, title string) *Box {
	return &Box{messageType: messageType, title: title}
}

func (b *Box) AddLine(text string) *Box {
	b.content = append(b.content, text)
	return b
}

func (b *Box) AddLines(lines ...string) *Box {
	b.content = append(b.content, lines...)
	return b
}

// AddKeyValue adds an aligned "key: value" line, e.g. "Bucket:    site".
func (b *Box) AddKeyValue(key string, value interface{}) *Box {
	b.content = append(b.content, fmt.Sprintf("%-10s %v", key+":", value))
	return b
}

func (b *Box) AddBullet(text string) *Box {
	b.content = append(b.content, "• "+text)
	return b
}

// Render draws the box with a rounded border sized to the terminal. Lines
// longer than the box are word-wrapped by lipgloss.
func (b *Box) Render() string {
	theme, ok := themes[b.messageType]
	if !ok {
		theme = themes[InfoMessage]
	}

	accent := lipgloss.NewStyle().Foreground(theme.color)
	header := accent.Bold(true).Render(theme.prefix + " " + b.title)

	body := header
	if len(b.content) > 0 {
		body += "\n" + strings.Join(b.content, "\n")
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.color).
		Padding(0, 1)

	if w := lipgloss.Width(body); w > boxContentWidth() {
		frame = frame.Width(boxContentWidth())
	}
	return frame.Render(body)
}

func Info(title string, lines ...string) string {
	return NewBox(InfoMessage, title).AddLines(lines...).Render()
}

func Success(title string, lines ...string) string {
	return NewBox(SuccessMessage, title).AddLines(lines...).Render()
}

func Warning(title string, lines ...string) string {
	return NewBox(WarningMessage, title).AddLines(lines...).Render()
}

func Error(title string, lines ...string) string {
	return NewBox(ErrorMessage, title).AddLines(lines...).Render()
}

// boxContentWidth leaves room for the border and padding inside the
// terminal. Output that is not a terminal (tests, pipes) is treated as 80 columns.
func boxContentWidth() int {
	width := 80
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w >= 40 {
			width = w
		}
	}
	return width - 4
}
