package tables

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gochance/domain/weighted"

	"github.com/xuri/excelize/v2"
)

// readWorkbook reads the first sheet of an Excel workbook
func readWorkbook(path string) (*weighted.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return buildTable(rows)
}

// readCSV reads a comma separated table with the same columns as a workbook
func readCSV(path string) (*weighted.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return buildTable(rows)
}

// buildTable turns rows with a `value | weight | group` header into a table.
// Rows sharing a group label form one group; the group's weight comes from
// the first of its rows that sets one, and later rows may only repeat it. A
// group row with no value declares the group without adding a member.
func buildTable(rows [][]string) (*weighted.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	valueCol, ok := columns["value"]
	if !ok {
		return nil, fmt.Errorf("missing %q column", "value")
	}
	weightCol, ok := columns["weight"]
	if !ok {
		return nil, fmt.Errorf("missing %q column", "weight")
	}
	groupCol, hasGroups := columns["group"]

	table := &weighted.Table{}
	groupIndex := map[string]int{}

	for n, row := range rows[1:] {
		line := n + 2
		if isBlank(row) {
			continue
		}

		value := cell(row, valueCol)
		weight, err := parseWeight(cell(row, weightCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		label := ""
		if hasGroups {
			label = cell(row, groupCol)
		}
		if label == "" {
			table.Entries = append(table.Entries, weighted.Entry{Value: value, Weight: weight})
			continue
		}

		idx, seen := groupIndex[label]
		if !seen {
			idx = len(table.Entries)
			groupIndex[label] = idx
			table.Entries = append(table.Entries, weighted.Entry{Group: []string{}})
		}
		entry := &table.Entries[idx]
		if value != "" {
			entry.Group = append(entry.Group, value)
		}
		switch {
		case weight == nil:
		case entry.Weight == nil:
			entry.Weight = weight
		case *entry.Weight != *weight:
			return nil, fmt.Errorf("row %d: weight %v conflicts with weight %v of group %q", line, *weight, *entry.Weight, label)
		}
	}

	return table, nil
}

func parseWeight(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid weight %q", raw)
	}
	return &w, nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
