package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteCSV writes records as CSV with a header row naming Columns.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(Columns))
	for i, c := range Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range records {
		if err := cw.Write(records[i].fields()); err != nil {
			return fmt.Errorf("failed to write CSV record %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNDJSON writes one JSON object per line.
func WriteNDJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("failed to encode JSON record %d: %w", i+1, err)
		}
	}
	return nil
}

// CSV returns the CSV encoding of records.
func CSV(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NDJSON returns the newline-delimited JSON encoding of records.
func NDJSON(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fields returns the record values in Columns order.
func (r *Record) fields() []string {
	return []string{
		strconv.Itoa(r.IDEstudiante),
		strconv.Itoa(r.DNI),
		r.NombreCompleto,
		r.FechaNacimiento,
		r.Email,
		r.Telefono,
		r.Direccion,
		r.Nacionalidad,
		strconv.Itoa(r.IDCentro),
		r.Titulacion,
		r.CursoAcademico,
	}
}
