package dataset

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidIdentifier is returned for database or table names that would
// need quoting.
var ErrInvalidIdentifier = errors.New("invalid identifier")

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether name can be used unquoted as a database or
// table name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

func checkIdentifiers(names ...string) error {
	for _, n := range names {
		if !ValidIdentifier(n) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, n)
		}
	}
	return nil
}

func checkLocation(location string) error {
	if !strings.HasPrefix(location, "s3://") || !strings.HasSuffix(location, "/") {
		return fmt.Errorf("table location must be an s3:// prefix ending in '/', got %q", location)
	}
	if strings.ContainsAny(location, "'\\") {
		return fmt.Errorf("table location contains quote characters: %q", location)
	}
	return nil
}

// CreateDatabaseSQL creates database if it does not exist.
func CreateDatabaseSQL(database string) (string, error) {
	if err := checkIdentifiers(database); err != nil {
		return "", err
	}
	return "CREATE DATABASE IF NOT EXISTS " + database, nil
}

// DropTableSQL drops database.table if it exists.
func DropTableSQL(database, table string) (string, error) {
	if err := checkIdentifiers(database, table); err != nil {
		return "", err
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", database, table), nil
}

// CreateCSVTableSQL declares an external table over the CSV files at
// location, skipping the header row.
func CreateCSVTableSQL(database, table, location string) (string, error) {
	if err := checkIdentifiers(database, table); err != nil {
		return "", err
	}
	if err := checkLocation(location); err != nil {
		return "", err
	}

	var b strings.Builder
	writeTableHead(&b, database, table)
	b.WriteString("ROW FORMAT SERDE 'org.apache.hadoop.hive.serde2.OpenCSVSerde'\n")
	b.WriteString("WITH SERDEPROPERTIES (\n")
	b.WriteString("    'separatorChar' = ',',\n")
	b.WriteString("    'quoteChar' = '\"',\n")
	b.WriteString("    'escapeChar' = '\\\\'\n")
	b.WriteString(")\n")
	fmt.Fprintf(&b, "LOCATION '%s'\n", location)
	b.WriteString("TBLPROPERTIES (\n")
	b.WriteString("    'skip.header.line.count'='1',\n")
	b.WriteString("    'has_encrypted_data'='false'\n")
	b.WriteString(")")
	return b.String(), nil
}

// CreateJSONTableSQL declares an external table over newline-delimited JSON
// files at location.
func CreateJSONTableSQL(database, table, location string) (string, error) {
	if err := checkIdentifiers(database, table); err != nil {
		return "", err
	}
	if err := checkLocation(location); err != nil {
		return "", err
	}

	var b strings.Builder
	writeTableHead(&b, database, table)
	b.WriteString("ROW FORMAT SERDE 'org.openx.data.jsonserde.JsonSerDe'\n")
	fmt.Fprintf(&b, "LOCATION '%s'\n", location)
	b.WriteString("TBLPROPERTIES (\n")
	b.WriteString("    'has_encrypted_data'='false'\n")
	b.WriteString(")")
	return b.String(), nil
}

// SelectSQL selects up to limit rows from database.table.
func SelectSQL(database, table string, limit int) (string, error) {
	if err := checkIdentifiers(database, table); err != nil {
		return "", err
	}
	if limit <= 0 {
		return "", fmt.Errorf("limit must be positive, got %d", limit)
	}
	return fmt.Sprintf("SELECT * FROM %s.%s LIMIT %d", database, table, limit), nil
}

func writeTableHead(b *strings.Builder, database, table string) {
	fmt.Fprintf(b, "CREATE EXTERNAL TABLE IF NOT EXISTS %s.%s (\n", database, table)
	for i, c := range Columns {
		sep := ","
		if i == len(Columns)-1 {
			sep = ""
		}
		fmt.Fprintf(b, "    %s %s%s\n", c.Name, c.Type, sep)
	}
	b.WriteString(")\n")
}
