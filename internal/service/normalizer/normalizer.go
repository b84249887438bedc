package normalizer

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
)

// Skip reasons reported per rejected row.
const (
	ReasonBadTimestamp      = "unparsable timestamp"
	ReasonMissingExternalID = "missing employee id"
	ReasonMissingName       = "missing employee name"
)

// DetectSchema classifies the export layout from the first row's field set.
func DetectSchema(first punch.RawRow) (punch.Schema, error) {
	switch {
	case first.Has(punch.ColExternalIDA) && first.Has(punch.ColTimestampA):
		return punch.SchemaWithErrors, nil
	case first.Has(punch.ColExternalIDB) && first.Has(punch.ColTimestampB):
		return punch.SchemaWithoutErrors, nil
	}
	return "", punch.ErrUnrecognizedFormat
}

// ValidateColumns checks that the first row carries every required column of the schema.
func ValidateColumns(rows []punch.RawRow, schema punch.Schema) error {
	if len(rows) == 0 {
		return punch.ErrEmptySheet
	}
	first := rows[0]
	for _, col := range punch.RequiredColumns(schema) {
		if !first.Has(col) {
			return &punch.MissingColumnError{Schema: schema, Column: col}
		}
	}
	return nil
}

// Prepare resolves the schema (detecting it when declared is empty) and validates columns.
// Every error it returns is fatal for the whole file.
func Prepare(rows []punch.RawRow, declared punch.Schema) (punch.Schema, error) {
	if len(rows) == 0 {
		return "", punch.ErrEmptySheet
	}

	schema := declared
	if schema == "" {
		detected, err := DetectSchema(rows[0])
		if err != nil {
			return "", err
		}
		schema = detected
	} else if !schema.IsValid() {
		return "", fmt.Errorf("%w: %q", punch.ErrUnrecognizedFormat, declared)
	}

	if err := ValidateColumns(rows, schema); err != nil {
		return "", err
	}
	return schema, nil
}

// NormalizeRows converts every row. Rejected rows are logged and reported, never fatal.
func NormalizeRows(rows []punch.RawRow, schema punch.Schema) []punch.RowResult {
	results := make([]punch.RowResult, 0, len(rows))
	for i, row := range rows {
		res := NormalizeRow(row, schema, i)
		if res.Skipped() {
			slog.Warn("Skipping time clock row", "row", i, "format", schema, "reason", res.Reason)
		}
		results = append(results, res)
	}
	return results
}

// Punches keeps the accepted punches of a normalization run, in row order.
func Punches(results []punch.RowResult) []punch.Canonical {
	out := make([]punch.Canonical, 0, len(results))
	for _, r := range results {
		if r.Punch != nil {
			out = append(out, *r.Punch)
		}
	}
	return out
}

// NormalizeRow converts a single row of the given schema to a canonical punch.
func NormalizeRow(row punch.RawRow, schema punch.Schema, index int) punch.RowResult {
	skip := func(reason string) punch.RowResult {
		return punch.RowResult{Index: index, Reason: reason}
	}

	var (
		externalCol = punch.ColExternalIDA
		timeCol     = punch.ColTimestampA
		rosterCol   = punch.ColRosterNumberA
	)
	if schema == punch.SchemaWithoutErrors {
		externalCol = punch.ColExternalIDB
		timeCol = punch.ColTimestampB
		rosterCol = punch.ColRosterNumberB
	}

	ts, err := ParseTimestamp(row[timeCol])
	if err != nil {
		return skip(ReasonBadTimestamp)
	}

	externalID := strings.TrimSpace(row[externalCol])
	if externalID == "" {
		return skip(ReasonMissingExternalID)
	}

	name := strings.TrimSpace(row[punch.ColName])
	if name == "" {
		return skip(ReasonMissingName)
	}

	surname, given := SplitName(name)
	p := punch.Canonical{
		ExternalID:     externalID,
		RosterNumber:   optional(row[rosterCol]),
		Surname:        surname,
		GivenName:      given,
		Timestamp:      ts,
		Direction:      parseDirection(row[punch.ColDirection]),
		Classification: punch.ClassificationValid,
	}

	switch schema {
	case punch.SchemaWithErrors:
		p.Classification = parseClassification(row[punch.ColClassificationA])
		p.NewStatus = optional(row[punch.ColNewStatusA])
		p.Operation = optional(row[punch.ColOperationA])
	case punch.SchemaWithoutErrors:
		p.Department = optional(row[punch.ColDepartmentB])
	}

	return punch.RowResult{Index: index, Punch: &p}
}

// ParseTimestamp parses "D/M/YYYY HH:MM" (leading zeros optional, 24h clock).
// Trailing seconds are validated and dropped. The result is naive local time carried in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}

	dateParts := strings.Split(fields[0], "/")
	clockParts := strings.Split(fields[1], ":")
	if len(dateParts) != 3 || len(clockParts) < 2 || len(clockParts) > 3 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}

	parts := append(dateParts, clockParts...)
	values := make([]int, len(parts))
	for i, part := range parts {
		v, ok := unsigned(part)
		if !ok {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: bad component %q", s, part)
		}
		values[i] = v
	}

	day, month, year, hour, minute := values[0], values[1], values[2], values[3], values[4]
	if len(dateParts[2]) != 4 || hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	if len(values) == 6 && values[5] > 59 {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes 31/2 into March; reject instead.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", s)
	}
	return t, nil
}

// unsigned accepts only ASCII digits, so signs and spaces are rejected.
func unsigned(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	return v, err == nil
}

// SplitName splits "Surname, Given" on the first comma. Without a comma the whole
// string is used as both surname and given name.
func SplitName(name string) (surname string, given string) {
	name = strings.TrimSpace(name)
	before, after, found := strings.Cut(name, ",")
	if !found {
		return name, name
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// parseDirection treats every state other than "Entrada" as an exit.
func parseDirection(s string) punch.Direction {
	if punch.Direction(strings.TrimSpace(s)) == punch.DirectionEntry {
		return punch.DirectionEntry
	}
	return punch.DirectionExit
}

// parseClassification defaults an empty tag to valid. Unknown tags are kept as-is:
// they are neither valid nor flagged, so pairing and detection ignore them.
func parseClassification(s string) punch.Classification {
	if c := punch.Classification(strings.TrimSpace(s)); c != "" {
		return c
	}
	return punch.ClassificationValid
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
