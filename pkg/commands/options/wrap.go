package options

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// Wrap80 wraps help text for an 80 column terminal.
func Wrap80(text string) string {
	return Wrap(text, 80)
}

// Wrap reflows text to width, keeping blank-line paragraph breaks.
func Wrap(text string, width int) string {
	paras := strings.Split(strings.TrimSpace(text), "\n\n")
	for i, p := range paras {
		paras[i] = wordwrap.String(strings.Join(strings.Fields(p), " "), width)
	}
	return strings.Join(paras, "\n\n")
}
