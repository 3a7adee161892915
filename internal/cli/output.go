package cli

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/tinymark/internal/logger"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
)

// status is the JSON envelope for commands that produce no records.
type status struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// printJSON writes v as one line of JSON.
func (a *app) printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// success reports a completed command. In JSON mode msg becomes the reason
// of a success envelope.
func (a *app) success(msg string) error {
	if a.json {
		return a.printJSON(status{Status: statusSuccess, Reason: msg})
	}
	_, err := fmt.Fprintln(a.out, msg)
	return err
}

// reportFailure renders err for the user. JSON mode writes a fail envelope
// to stdout so scripts read a single stream.
func (a *app) reportFailure(err error) {
	if a.json || a.flags.jsonMode {
		_ = a.printJSON(status{Status: statusFail, Reason: err.Error()})
		return
	}
	a.log.Error("command failed", logger.Error(err))
}
