// Package queue provides the headless queue commands: reorder, add and
// remove.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/episode"
	"tableflip.dev/pods/pkg/printers"
)

var errNoService = errors.New("queue: no service")

// Reorder moves one episode like a drop would, or replaces the whole order
// when IDs is set.
type Reorder struct {
	ID      episode.ID
	To      int
	IDs     []episode.ID
	JSON    bool
	ShowID  bool
	Service *app.Service
	Out     io.Writer
}

func (r *Reorder) Do(ctx context.Context) error {
	if r.Service == nil {
		return errNoService
	}

	var (
		order []episode.Episode
		err   error
	)
	if len(r.IDs) > 0 {
		if err := r.Service.ReorderQueue(ctx, r.IDs); err != nil {
			return err
		}
		res, err := r.Service.Load(ctx, app.Queue)
		if err != nil {
			return err
		}
		order = res.Episodes
	} else {
		order, err = r.Service.Move(ctx, r.ID, r.To)
		if err != nil {
			return err
		}
	}

	if r.JSON {
		return printJSON(writer(r.Out), map[string]any{"order": episode.IDs(order)})
	}
	pp := printers.PrettyPrint{ShowID: r.ShowID, Out: writer(r.Out)}
	pp.TitleWithCount(app.Queue.Title(), len(order))
	pp.Episodes(order...)
	return nil
}

// Membership adds or removes one episode.
type Membership struct {
	ID      episode.ID
	YouTube bool
	Remove  bool
	JSON    bool
	Service *app.Service
	Out     io.Writer
}

func (m *Membership) Do(ctx context.Context) error {
	if m.Service == nil {
		return errNoService
	}
	var (
		msg string
		err error
	)
	if m.Remove {
		msg, err = m.Service.Dequeue(ctx, m.ID, m.YouTube)
	} else {
		msg, err = m.Service.Enqueue(ctx, m.ID, m.YouTube)
	}
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "ok"
	}
	if m.JSON {
		return printJSON(writer(m.Out), map[string]any{"id": m.ID, "message": msg})
	}
	_, err = fmt.Fprintln(writer(m.Out), msg)
	return err
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

func printJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
