package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Mode selects how results are rendered
type Mode string

const (
	ModeJSON  Mode = "json"
	ModePlain Mode = "plain"
	ModeHuman Mode = "human"
)

// Options configure a Printer. An empty Mode picks human output on a
// terminal and JSON otherwise.
type Options struct {
	Mode    string
	Pretty  bool
	Quiet   bool
	NoColor bool
}

// Result is a command outcome with an explicit renderer per mode. JSON
// output marshals the value itself.
type Result interface {
	Plain(w io.Writer)
	Human(p *Printer)
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data"`
	Error   *errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Printer writes results to stdout in the selected mode
type Printer struct {
	out    io.Writer
	mode   Mode
	pretty bool
	quiet  bool
	color  bool

	bold   *color.Color
	dim    *color.Color
	red    *color.Color
	green  *color.Color
	yellow *color.Color
	cyan   *color.Color
}

func New(out io.Writer, opts Options) *Printer {
	tty := IsTerminal(out)
	mode := Mode(opts.Mode)
	if mode == "" {
		mode = ModeJSON
		if tty {
			mode = ModeHuman
		}
	}

	p := &Printer{
		out:    out,
		mode:   mode,
		pretty: opts.Pretty,
		quiet:  opts.Quiet,
		color:  tty && !opts.NoColor && os.Getenv("NO_COLOR") == "" && os.Getenv("TERM") != "dumb",
	}
	p.bold = p.style(color.Bold)
	p.dim = p.style(color.Faint)
	p.red = p.style(color.FgRed)
	p.green = p.style(color.FgGreen)
	p.yellow = p.style(color.FgYellow)
	p.cyan = p.style(color.FgCyan)
	return p
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (p *Printer) Mode() Mode {
	return p.mode
}

// Color reports whether ANSI styling is enabled
func (p *Printer) Color() bool {
	return p.color
}

// Print renders r. Quiet printers write nothing.
func (p *Printer) Print(r Result) error {
	if p.quiet {
		return nil
	}
	switch p.mode {
	case ModePlain:
		r.Plain(p.out)
	case ModeHuman:
		r.Human(p)
	default:
		return p.writeJSON(envelope{Success: true, Data: r})
	}
	return nil
}

// Error renders a failure with its error code
func (p *Printer) Error(code, message string) error {
	if p.quiet {
		return nil
	}
	switch p.mode {
	case ModePlain:
		fmt.Fprintf(p.out, "error\t%s\t%s\n", code, message)
	case ModeHuman:
		fmt.Fprintf(p.out, "%s %s: %s\n", p.Red("✗"), p.Bold(code), message)
	default:
		return p.writeJSON(envelope{Error: &errorBody{Code: code, Message: message}})
	}
	return nil
}

func (p *Printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetEscapeHTML(false)
	if p.pretty {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(v), "failed to write output")
}

func (p *Printer) Bold(s string) string   { return p.bold.Sprint(s) }
func (p *Printer) Dim(s string) string    { return p.dim.Sprint(s) }
func (p *Printer) Red(s string) string    { return p.red.Sprint(s) }
func (p *Printer) Green(s string) string  { return p.green.Sprint(s) }
func (p *Printer) Yellow(s string) string { return p.yellow.Sprint(s) }
func (p *Printer) Cyan(s string) string   { return p.cyan.Sprint(s) }

// Linef writes one formatted line
func (p *Printer) Linef(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Line writes s followed by a newline
func (p *Printer) Line(s string) {
	fmt.Fprintln(p.out, s)
}

// Table renders rows under header with tablewriter
func (p *Printer) Table(header []string, rows [][]string) {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	if p.color {
		colors := make([]tablewriter.Colors, len(header))
		for i := range colors {
			colors[i] = tablewriter.Colors{tablewriter.Bold}
		}
		table.SetHeaderColor(colors...)
	}
	table.AppendBulk(rows)
	table.Render()
}

// Truncate shortens s to at most width terminal cells
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width terminal cells
func PadRight(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

func plainRow(w io.Writer, fields ...any) {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f == nil {
			continue
		}
		parts[i] = fmt.Sprint(f)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}
