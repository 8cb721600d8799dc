// Package render writes command results as tables, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/usestring/vra-mcp/internal/query"
)

// Output formats accepted by NewFormatter.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formatter writes a command result.
type Formatter interface {
	Format(data any) error
}

// Tabular is implemented by results that can be shown as a table.
type Tabular interface {
	Table() (headers []string, rows [][]string)
}

// Options configure a Formatter.
type Options struct {
	// Writer is where output is written (defaults to os.Stdout).
	Writer io.Writer
	// Query is a jq expression applied to the result before it is written.
	// A query forces JSON output when the table format is requested.
	Query string
	// Compact disables indentation of JSON output.
	Compact bool
}

// NewFormatter creates a formatter based on the format string.
func NewFormatter(format string, opts *Options) (Formatter, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Query != "" {
		if err := query.NewEngine().ValidateExpression(opts.Query); err != nil {
			return nil, err
		}
	}

	switch format {
	case FormatJSON:
		return &jsonFormatter{opts: opts}, nil
	case FormatYAML:
		return &yamlFormatter{opts: opts}, nil
	case FormatTable, "":
		if opts.Query != "" {
			return &jsonFormatter{opts: opts}, nil
		}
		return &tableFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: table, json, yaml)", format)
	}
}

// prepare converts data into its generic JSON form and applies the query.
// Query output is always the list of values the expression yielded.
func prepare(data any, expr string) (any, error) {
	if expr == "" {
		return query.Normalize(data)
	}
	result, err := query.NewEngine().QueryValue(data, expr, query.Options{KeepNulls: true})
	if err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("query: %s", result.Errors[0])
	}
	return result.Values, nil
}

type jsonFormatter struct {
	opts *Options
}

func (f *jsonFormatter) Format(data any) error {
	v, err := prepare(data, f.opts.Query)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

type yamlFormatter struct {
	opts *Options
}

func (f *yamlFormatter) Format(data any) error {
	// Going through the JSON form keeps the vRA field names.
	v, err := prepare(data, f.opts.Query)
	if err != nil {
		return err
	}
	encoder := yaml.NewEncoder(f.opts.Writer)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(v)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")) // Gray
)

type tableFormatter struct {
	opts *Options
}

func (f *tableFormatter) Format(data any) error {
	switch v := data.(type) {
	case Tabular:
		headers, rows := v.Table()
		if len(rows) == 0 {
			_, err := fmt.Fprintln(f.opts.Writer, "No results.")
			return err
		}
		_, err := fmt.Fprintln(f.opts.Writer, Table(headers, rows))
		return err
	case string:
		_, err := fmt.Fprintln(f.opts.Writer, v)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.opts.Writer, v.String())
		return err
	default:
		return fmt.Errorf("table output is not available for %T, use -o json or -o yaml", data)
	}
}

// Table renders headers and rows as a bordered table.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// KeyValues renders label/value pairs, one per line, with aligned labels.
func KeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}
	label := lipgloss.NewStyle().Bold(true).Width(width + 2)

	var out string
	for i, p := range pairs {
		if i > 0 {
			out += "\n"
		}
		out += label.Render(p[0]+":") + p[1]
	}
	return out
}

// Compile-time verification that formatters implement Formatter
var (
	_ Formatter = (*jsonFormatter)(nil)
	_ Formatter = (*yamlFormatter)(nil)
	_ Formatter = (*tableFormatter)(nil)
)
