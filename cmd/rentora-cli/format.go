package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

// formatTable prints an aligned table with a dashed separator under the
// header. Columns whose data cells are all numeric (IDs, amounts) are
// right-aligned so digits line up.
func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	numeric := make([]bool, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
		numeric[i] = len(rows) > 0
	}

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				continue
			}
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric[i] = false
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			if i < len(numeric) && numeric[i] {
				parts[i] = fmt.Sprintf("%*s", w, cell)
			} else {
				parts[i] = fmt.Sprintf("%-*s", w, cell)
			}
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)

	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)

	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(id string) {
	fmt.Println(id)
}

func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quietVal)
	case "table":
		// Table requires caller to use formatTable directly.
		// Fallback to JSON for generic output.
		formatJSON(v)
	default:
		formatJSON(v)
	}
}
