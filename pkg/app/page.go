package app

import (
	"fmt"
	"strings"
)

// Page names one of the server's episode lists.
type Page string

const (
	Feed    Page = "feed"
	Queue   Page = "queue"
	History Page = "history"
	Saved   Page = "saved"
)

// Pages lists every page in tab order.
var Pages = []Page{Feed, Queue, History, Saved}

func (p Page) String() string { return string(p) }

// Title is the display name of the page.
func (p Page) Title() string {
	switch p {
	case Feed:
		return "Home"
	case Queue:
		return "Queue"
	case History:
		return "History"
	case Saved:
		return "Saved"
	}
	return string(p)
}

// Draggable reports whether the page supports reordering. Only the queue has
// a server side order.
func (p Page) Draggable() bool { return p == Queue }

// ParsePage accepts a page name or a common alias.
func ParsePage(s string) (Page, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "feed", "home", "recent":
		return Feed, nil
	case "queue", "queued":
		return Queue, nil
	case "history":
		return History, nil
	case "saved":
		return Saved, nil
	}
	return "", fmt.Errorf("app: unknown page %q (want one of feed, queue, history, saved)", s)
}
