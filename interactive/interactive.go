package interactive

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Overlay is an in-memory store of override values keyed by node path. It
// implements conf.Overrider and can be prefilled, e.g. from command-line
// flags.
type Overlay struct {
	values map[string]any
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{
		values: make(map[string]any),
	}
}

// Set stores an override for path.
func (o *Overlay) Set(path string, value any) {
	o.values[path] = value
}

// Lookup implements conf.Overrider.
func (o *Overlay) Lookup(path string) (any, bool) {
	value, ok := o.values[path]

	return value, ok
}

// Editor prompts on every first lookup of a path, letting the user enter a
// YAML expression that overrides the raw tree value. Accepted values are
// stored in an overlay for the remainder of the process; declined prompts
// are remembered and never repeated.
//
// Editor is synchronous and not safe for concurrent use, matching the conf
// package's single-threaded model.
type Editor struct {
	overlay *Overlay
	in      *bufio.Scanner
	out     io.Writer
	asked   map[string]struct{}
}

// NewEditor creates an Editor reading answers from in and writing prompts to
// out, typically os.Stdin and os.Stderr.
func NewEditor(in io.Reader, out io.Writer) *Editor {
	return &Editor{
		overlay: NewOverlay(),
		in:      bufio.NewScanner(in),
		out:     out,
		asked:   make(map[string]struct{}),
	}
}

// Lookup implements conf.Overrider.
func (e *Editor) Lookup(path string) (any, bool) {
	if value, ok := e.overlay.Lookup(path); ok {
		return value, true
	}

	if _, done := e.asked[path]; done {
		return nil, false
	}

	e.asked[path] = struct{}{}

	display := path
	if display == "" {
		display = "<root>"
	}

	fmt.Fprintf(e.out, "configuration key %s\n", display)
	fmt.Fprint(e.out, "override [y/N]? ")

	if !e.readLine("y") {
		return nil, false
	}

	fmt.Fprint(e.out, "value (YAML): ")

	if !e.in.Scan() {
		return nil, false
	}

	var value any

	err := yaml.Unmarshal(e.in.Bytes(), &value)
	if err != nil {
		fmt.Fprintf(e.out, "invalid YAML, keeping original value: %s\n", err)

		return nil, false
	}

	e.overlay.Set(path, value)

	return value, true
}

func (e *Editor) readLine(want string) bool {
	if !e.in.Scan() {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(e.in.Text()), want)
}
