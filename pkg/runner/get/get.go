// Package get prints one or every page of episodes.
package get

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/printers"
)

type Get struct {
	Page    app.Page
	All     bool
	ShowID  bool
	JSON    bool
	Width   uint
	Service *app.Service
	Out     io.Writer
}

type pageJSON struct {
	Page     string `json:"page"`
	Stale    bool   `json:"stale,omitempty"`
	Saved    string `json:"saved,omitempty"`
	Episodes any    `json:"episodes"`
}

func (n *Get) out() io.Writer {
	if n.Out == nil {
		return color.Output
	}
	return n.Out
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}

	var results []app.Result
	if n.All {
		all, err := n.Service.LoadAll(ctx)
		if err != nil {
			return err
		}
		for _, p := range app.Pages {
			results = append(results, all[p])
		}
	} else {
		page := n.Page
		if page == "" {
			page = app.Queue
		}
		res, err := n.Service.Load(ctx, page)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	if n.JSON {
		return n.printJSON(results)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Width: n.Width, Out: n.out()}
	pp.NewLine()
	for _, res := range results {
		pp.TitleWithCount(res.Page.Title(), len(res.Episodes))
		if res.Stale {
			warn := color.New(color.FgYellow)
			_, _ = warn.Fprintf(n.out(), "offline, cached %s\n", res.Saved.Local().Format(time.RFC1123))
		}
		pp.Episodes(res.Episodes...)
	}
	return nil
}

func (n *Get) printJSON(results []app.Result) error {
	out := make([]pageJSON, 0, len(results))
	for _, res := range results {
		p := pageJSON{Page: res.Page.String(), Stale: res.Stale, Episodes: res.Episodes}
		if res.Stale {
			p.Saved = res.Saved.UTC().Format(time.RFC3339)
		}
		out = append(out, p)
	}
	var v any = out
	if len(out) == 1 {
		v = out[0]
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(n.out(), string(b))
	return err
}
