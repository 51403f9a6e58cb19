package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
)

// ConsoleWriter turns zerolog's JSON events into short colored lines
type ConsoleWriter struct {
	Out   io.Writer
	Debug bool

	buffer strings.Builder
	lock   sync.Mutex
}

// colors keeps the level color active past the header; Write closes it once at the end of the line
var colors = colorstring.Colorize{Colors: colorstring.DefaultColors}

// NewConsoleWriter returns a writer printing to out; debug adds every event field
func NewConsoleWriter(out io.Writer, debug bool) *ConsoleWriter {
	return &ConsoleWriter{Out: out, Debug: debug}
}

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	err = d.Decode(&evt)
	if err != nil {
		return n, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	w.buffer.Reset()
	switch evt["level"] {
	case "fatal":
		fallthrough
	case "error":
		w.buffer.WriteString("[red]")
	case "warn":
		w.buffer.WriteString("[yellow]")
	case "debug":
		fallthrough
	case "trace":
		w.buffer.WriteString("[blue]")
	default:
		w.buffer.WriteString("[green]")
	}

	if task, ok := evt["task"].(string); ok {
		w.buffer.WriteString(task + ": ")
	}

	if evt["level"] == "error" {
		w.buffer.WriteString("Error: ")
	}

	if isCmd, ok := evt["command"].(bool); ok && isCmd {
		w.buffer.WriteString("$ ")
	}

	// messages can contain brackets (pip extras) which must not be read as color codes
	header := colors.Color(w.buffer.String())
	w.buffer.Reset()
	w.buffer.WriteString(header)

	msg, _ := evt["message"].(string)
	w.buffer.WriteString(msg)

	if errorDetails, ok := evt["error"].(string); ok {
		w.buffer.WriteString("\n")
		w.buffer.WriteString(errorDetails)
	}

	if w.Debug {
		w.buffer.WriteString("\n")
		for name, value := range evt {
			w.buffer.WriteString(fmt.Sprintf("  %s: %+v\n", name, value))
		}
	}

	w.buffer.WriteString(colors.Color("[reset]"))
	w.buffer.WriteString("\n")
	_, err = io.WriteString(w.Out, w.buffer.String())
	if err != nil {
		return 0, err
	}

	return len(p), nil
}
