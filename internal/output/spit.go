// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/fintrack/internal/config"
)

// Formats accepted by Emit.
const (
	Text = "text"
	JSON = "json"
	YAML = "yaml"
	Raw  = "raw"
)

// ErrUnknownFormat is returned by Emit for a format it cannot render.
var ErrUnknownFormat = errors.New("unknown output format")

// Column selects one value out of each row of a dataset.
type Column struct {
	// Key is the gjson path of the value within a row.
	Key string
	// Name is the output key and the column title. Defaults to the last
	// segment of Key.
	Name string
	// Render formats the value for text output. InterfaceToString is used
	// when nil.
	Render func(any) string
}

// OutputKey returns the name the column's values are stored under.
func (c Column) OutputKey() string {
	if c.Name != "" {
		return c.Name
	}
	if i := strings.LastIndex(c.Key, "."); i >= 0 {
		return c.Key[i+1:]
	}
	return c.Key
}

// Options control how a dataset is rendered.
type Options struct {
	Format string
	Sort   string
	Filter string
	Titles bool
	Color  bool
}

// Emit filters, sorts and renders raw, a JSON array of rows or a single JSON
// object, to w.
func Emit(w io.Writer, raw []byte, cols []Column, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	if opts.Format == Raw {
		if _, err := w.Write(raw); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		doc = gjson.Parse("[" + doc.Raw + "]")
	}

	dataset := FilterDataset(doc, cols, opts.Filter)
	SortDataset(dataset, opts.Sort)

	switch opts.Format {
	case JSON:
		if dataset == nil {
			dataset = []map[string]interface{}{}
		}
		out, err := json.MarshalIndent(dataset, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case YAML:
		out, err := yaml.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to render yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case Text, "":
		TableWriter(w, dataset, cols, opts)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, opts.Format)
	}
}

// EmitDocument writes raw, a single JSON document, without reducing it to
// columns. Text is not supported; callers render their own tables.
func EmitDocument(w io.Writer, raw []byte, format string) error {
	if w == nil {
		w = os.Stdout
	}

	switch format {
	case Raw:
		_, err := fmt.Fprintln(w, string(raw))
		return err
	case JSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("failed to render json: %w", err)
		}
		_, err := fmt.Fprintln(w, buf.String())
		return err
	case YAML:
		var doc interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to render yaml: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to render yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// TableWriter renders the result set in a tabular form honoring color and
// titles options.
func TableWriter(w io.Writer, resultSet []map[string]interface{}, cols []Column, opts Options) {
	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 0)

	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(cols))
		for _, col := range cols {
			value := result[col.OutputKey()]
			if col.Render != nil {
				row = append(row, col.Render(value))
				continue
			}
			row = append(row, InterfaceToString(value, "-"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		headers := make([]string, 0, len(cols))
		for _, col := range cols {
			headers = append(headers, col.OutputKey())
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	fmt.Fprintln(w, t)
}

// ColorDefault is true when stdout is a terminal.
func ColorDefault() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	log.Debugf("colors: %s %s %s", header, even, odd)
	return
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
