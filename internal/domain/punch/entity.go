package punch

import (
	"time"
)

// Schema identifies which of the two known time-clock export layouts a file uses.
type Schema string

const (
	// SchemaWithErrors is the "Marcaciones del..." export, carrying the clock's own
	// anomaly classification per punch.
	SchemaWithErrors Schema = "CON_ERRORES"
	// SchemaWithoutErrors is the "Ac Reg del..." export, carrying the department.
	SchemaWithoutErrors Schema = "SIN_ERRORES"
)

func (s Schema) IsValid() bool {
	return s == SchemaWithErrors || s == SchemaWithoutErrors
}

// Direction is the clock-in / clock-out state recorded by the terminal.
type Direction string

const (
	DirectionEntry Direction = "Entrada"
	DirectionExit  Direction = "Salida"
)

// Classification is the anomaly tag attached to a punch by the terminal.
type Classification string

const (
	ClassificationValid     Classification = "FOT"
	ClassificationInvalid   Classification = "Invalido"
	ClassificationDuplicate Classification = "Repetido"
)

// RawRow is one spreadsheet row keyed by column header, as produced by the sheet reader.
type RawRow map[string]string

// Has reports whether the row carries the given column, even if empty.
func (r RawRow) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Canonical is a punch normalized from either export layout.
type Canonical struct {
	ExternalID     string
	RosterNumber   *string
	Surname        string
	GivenName      string
	Department     *string
	Timestamp      time.Time
	Direction      Direction
	Classification Classification
	NewStatus      *string
	Operation      *string
}

// FullName renders the name the way the export stores it.
func (c Canonical) FullName() string {
	if c.Surname == c.GivenName {
		return c.Surname
	}
	return c.Surname + ", " + c.GivenName
}

func (c Canonical) IsValid() bool {
	return c.Classification == ClassificationValid
}

// RowResult is the outcome of normalizing a single row: either a punch or a skip reason.
type RowResult struct {
	Index  int
	Punch  *Canonical
	Reason string
}

func (r RowResult) Skipped() bool {
	return r.Punch == nil
}

// Raw is the persisted audit copy of a canonical punch.
type Raw struct {
	ID             int64
	ImportID       string
	ExternalID     string
	FullName       string
	Timestamp      time.Time
	Direction      Direction
	Classification Classification
	NewStatus      *string
	Operation      *string
	CreatedAt      time.Time
}
