package options

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/client"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

type jsonError struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

// HandleError prints err as a JSON object when --json is set and swallows it,
// so scripts read one document on stdout. Server errors carry their status.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	out := jsonError{Error: err.Error()}
	var se *client.StatusError
	if errors.As(err, &se) {
		out.Status = se.Code
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}
