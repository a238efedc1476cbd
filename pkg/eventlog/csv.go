package eventlog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"
	"strconv"
)

// CSVWriter appends items as CSV rows. Columns are the item's JSON keys in
// sorted order, written as a header before the first row.
type CSVWriter[T any] struct {
	writer *csv.Writer
	keys   []string
}

func (cw *CSVWriter[T]) Append(item T) error {
	jsonData, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshalling JSON: %w", err)
	}
	data := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	err = dec.Decode(&data)
	if err != nil {
		return fmt.Errorf("unmarshalling JSON: %w", err)
	}

	if cw.keys == nil {
		cw.keys = slices.Sorted(maps.Keys(data))
		err := cw.writer.Write(cw.keys)
		if err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	values := make([]string, 0, len(cw.keys))
	for _, k := range cw.keys {
		values = append(values, formatCell(data[k]))
	}

	return cw.writer.Write(values)
}

func (cw *CSVWriter[T]) Flush() error {
	cw.writer.Flush()
	return cw.writer.Error()
}

func NewCSVWriter[T any](dest io.Writer) *CSVWriter[T] {
	return &CSVWriter[T]{writer: csv.NewWriter(dest)}
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case json.Number:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

type CSVReader[T any] struct {
	reader *csv.Reader
}

// Iterator yields one item per row. Rows that repeat the header (as happens
// when logs are concatenated) are skipped.
func (cr *CSVReader[T]) Iterator() iter.Seq2[T, error] {
	var emptyItem T
	return func(yield func(T, error) bool) {
		var fields []string
		first := true
		for {
			record, err := cr.reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				yield(emptyItem, err)
				return
			}

			if first {
				fields = record
				first = false
				continue
			}

			data := map[string]any{}
			isRepeatedFields := true
			for i, k := range fields {
				if k != record[i] {
					isRepeatedFields = false
				}
				// only cells that print back identically are numbers, so "007"
				// stays a string
				if num, err := strconv.Atoi(record[i]); err == nil && strconv.Itoa(num) == record[i] {
					data[k] = json.Number(record[i])
				} else {
					data[k] = record[i]
				}
			}
			if isRepeatedFields {
				continue
			}
			jsonData, err := json.Marshal(data)
			if err != nil {
				yield(emptyItem, fmt.Errorf("marshalling JSON: %w", err))
				return
			}
			var item T
			err = json.Unmarshal(jsonData, &item)
			if err != nil {
				line, _ := cr.reader.FieldPos(0)
				yield(emptyItem, fmt.Errorf("unmarshalling JSON on line %d: %w", line, err))
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

func NewCSVReader[T any](src io.Reader) *CSVReader[T] {
	return &CSVReader[T]{csv.NewReader(src)}
}
