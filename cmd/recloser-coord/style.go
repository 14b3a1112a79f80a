package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const banner = "=========================="

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func printHeading(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, headingStyle.Render(strings.Join([]string{banner, title, banner}, "\n")))
}

func printNotice(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintln(w, noticeStyle.Render(fmt.Sprintf(format, a...)))
}
