package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/models"
)

// Format selects the export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
	}
}

// LinesHeader is the CSV header written by WriteLinesCSV
var LinesHeader = []string{"Path", "Level", "Key", "Type", "Value"}

// WriteLinesCSV writes one CSV row per rendered line. Values are the full
// JSON literal of the node, never the truncated display text.
func WriteLinesCSV(w io.Writer, tree models.TreeViewState, lines []models.TreeLine) error {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		node, ok := tree.Node(line.ID)
		if !ok {
			continue
		}
		path, _ := models.PathOf(tree, line.ID)

		value := line.Value
		if node.Type == models.NodeTypePrimitive {
			value = jsondoc.Literal(node.Value)
		}

		rows = append(rows, []string{
			path.String(),
			strconv.Itoa(line.Level),
			node.Key.String(),
			line.Kind.String(),
			value,
		})
	}
	return WriteCSV(w, LinesHeader, rows)
}

// WriteCSV writes a header and rows
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes v pretty printed with a trailing newline
func WriteJSON(w io.Writer, v jsondoc.Value) error {
	out, err := jsondoc.Format(v)
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ToFile creates path and hands it to write
func ToFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
