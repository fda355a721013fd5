package datatable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
)

// ReadRecords reads raw CSV records, tolerating ragged rows and stray quotes.
func ReadRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// WriteRecords writes records as CSV with LF line endings.
func WriteRecords(w io.Writer, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}

// EncodeRecords renders records the way WriteRecords does.
func EncodeRecords(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
