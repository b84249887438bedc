package punch

// Column headers of the "with errors" export.
const (
	ColExternalIDA     = "Nº AC."
	ColRosterNumberA   = "Nº"
	ColTimestampA      = "Tiempo"
	ColNewStatusA      = "Nuevo Estado"
	ColClassificationA = "Excepción"
	ColOperationA      = "Operación"
)

// Column headers of the "without errors" export.
const (
	ColDepartmentB   = "Departamento"
	ColExternalIDB   = "AC Nº"
	ColTimestampB    = "Día/Hora"
	ColRosterNumberB = "Número ID"
	ColDeviceB       = "Equipo"
	ColPunchModeB    = "Modo Marc."
	ColCardB         = "Tarjeta"
)

// Shared by both exports.
const (
	ColName      = "Nombre"
	ColDirection = "Estado"
)

var requiredColumns = map[Schema][]string{
	SchemaWithErrors:    {ColExternalIDA, ColName, ColTimestampA, ColDirection},
	SchemaWithoutErrors: {ColExternalIDB, ColName, ColTimestampB, ColDirection},
}

// RequiredColumns returns the headers that must be present for the schema.
func RequiredColumns(s Schema) []string {
	cols := requiredColumns[s]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}
