package monitor

import (
	"fmt"
	"io"
	"os"
)

// CLIMonitor implements the Monitor interface, providing a direct
// terminal-based view of messages flowing through the relay.
type CLIMonitor struct {
	writer io.Writer // The output destination, typically os.Stdout.
}

// NewCLIMonitor creates a new CLI monitor
func NewCLIMonitor() *CLIMonitor {
	return &CLIMonitor{
		writer: os.Stdout,
	}
}

// Start starts the CLI monitor
func (m *CLIMonitor) Start() error {
	fmt.Fprintln(m.writer, "----------------------------------------------------------------")
	fmt.Fprintln(m.writer, "Activity feed active - relay decisions will appear here")
	fmt.Fprintln(m.writer, "----------------------------------------------------------------")
	return nil
}

// Stop stops the CLI monitor
func (m *CLIMonitor) Stop() error {
	return nil
}

// OnEvent receives and displays a feed event
func (m *CLIMonitor) OnEvent(ev FeedEvent) {
	timestamp := ev.Timestamp.Format("2006-01-02 15:04:05")

	source := ev.SourceName
	if source == "" {
		source = fmt.Sprintf("%d", ev.Source)
	}

	line := fmt.Sprintf("[%s] %s", ev.Kind, source)
	if ev.Detail != "" {
		line += " (" + ev.Detail + ")"
	}
	if ev.Content != "" {
		line += ": " + ev.Content
	}

	// Use gray color for timestamp
	fmt.Fprintf(m.writer, "\033[90m[%s]\033[0m %s\n", timestamp, line)
}
