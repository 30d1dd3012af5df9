package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/partypop/partypop/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintEvent outputs one websocket event
func (o *Output) PrintEvent(env model.Envelope) {
	if o.format == "json" {
		o.printJSON(env)
		return
	}
	if len(env.Payload) > 0 {
		fmt.Printf("%s %s\n", env.Type, string(env.Payload))
	} else {
		fmt.Println(env.Type)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case StatsResult:
		o.printStatsResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// StatsResult response type
type StatsResult struct {
	Rooms   int `json:"rooms"`
	Clients int `json:"clients"`
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	if h.Reason != "" {
		fmt.Printf("Reason: %s\n", h.Reason)
	}
}

func (o *Output) printStatsResult(s StatsResult) {
	fmt.Printf("Rooms: %d\n", s.Rooms)
	fmt.Printf("Clients: %d\n", s.Clients)
}
