package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/pods/pkg/episode"
)

// PrettyPrint writes episode listings for the terminal.
type PrettyPrint struct {
	ShowID bool
	// Width bounds the title column; 0 leaves it unbounded.
	Width uint
	Out   io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " episode")
	default:
		_, _ = c.Fprintln(pp.out(), " episodes")
	}
}

// Episodes renders list as a table in display order.
func (pp *PrettyPrint) Episodes(list ...episode.Episode) {
	if len(list) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	done := color.New(color.FgGreen)

	tbl := uitable.New()
	tbl.Separator = "  "
	header := []interface{}{bold.Sprint("#")}
	if pp.ShowID {
		header = append(header, bold.Sprint("ID"))
	}
	header = append(header, bold.Sprint("Episode"), bold.Sprint("Podcast"), bold.Sprint("Length"), bold.Sprint("Progress"))
	tbl.AddRow(header...)

	for i, e := range list {
		row := []interface{}{faint.Sprint(i + 1)}
		if pp.ShowID {
			row = append(row, y.Sprint(e.ID))
		}
		title := e.Title
		if pp.Width > 0 {
			title = truncate.StringWithTail(title, pp.Width, "…")
		}
		progress := Progress(e)
		if e.Completed {
			progress = done.Sprint(progress)
		}
		row = append(row, title, faint.Sprint(e.PodcastName), episode.FormatDuration(e.Duration), progress)
		tbl.AddRow(row...)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Progress renders how far into e the listener is.
func Progress(e episode.Episode) string {
	if e.Completed {
		return "done"
	}
	if e.ListenSeconds <= 0 {
		return "-"
	}
	const width = 10
	filled := int(e.Progress() * width)
	return strings.Repeat("■", filled) + strings.Repeat("□", width-filled)
}
