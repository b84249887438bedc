package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func buildXLSX(t *testing.T, grid [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, line := range grid {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &line))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadRows_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Nº AC.", "Nombre", "Tiempo", "Estado", "Excepción"},
		{"12345678", "Perez, Juan", "1/3/2024 08:00", "Entrada", "FOT"},
		{"12345678", "Perez, Juan", "1/3/2024 17:00", "Salida", ""},
	})

	rows, err := ReadRows("Marcaciones del mes.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "12345678", rows[0]["Nº AC."])
	assert.Equal(t, "1/3/2024 08:00", rows[0]["Tiempo"])
	assert.Equal(t, "Salida", rows[1]["Estado"])
	assert.True(t, rows[1].Has("Excepción"))
	assert.Equal(t, "", rows[1]["Excepción"])
}

func TestReadRows_XLSNamedXLSXFallsBack(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"AC Nº", "Nombre", "Día/Hora", "Estado", "Departamento"},
		{"87654321", "Gomez, Ana", "2/3/2024 09:00", "Entrada", "Ventas"},
	})

	rows, err := ReadRows("Ac Reg del mes.xls", bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ventas", rows[0]["Departamento"])
}

func TestReadRows_CSVSemicolonWindows1252(t *testing.T) {
	content := "Nº AC.;Nombre;Tiempo;Estado\n\n12345678;Muñoz, José;1/3/2024 08:00;Entrada\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(content)
	require.NoError(t, err)

	rows, err := ReadRows("export.csv", bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Muñoz, José", rows[0]["Nombre"])
	assert.Equal(t, "12345678", rows[0]["Nº AC."])
}

func TestReadRows_CSVComma(t *testing.T) {
	content := "\ufeffAC Nº,Nombre,Día/Hora,Estado\n1,\"Perez, Juan\",1/3/2024 08:00,Entrada\n"

	rows, err := ReadRows("export.CSV", bytes.NewReader([]byte(content)))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Perez, Juan", rows[0]["Nombre"])
	assert.Equal(t, "1", rows[0]["AC Nº"])
}

func TestReadRows_UnsupportedExtension(t *testing.T) {
	_, err := ReadRows("export.pdf", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestToRows_ShortLinesAndDuplicateHeaders(t *testing.T) {
	rows := ToRows([][]string{
		{"", ""},
		{" Nombre ", "Estado", "Nombre"},
		{"Perez, Juan"},
		{"", "", ""},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Perez, Juan", rows[0]["Nombre"])
	assert.True(t, rows[0].Has("Estado"))
	assert.Equal(t, "", rows[0]["Estado"])
	assert.Len(t, rows[0], 2)
}

func TestNormalizeHeader_ComposesDecomposedForms(t *testing.T) {
	// "Día" written with a combining acute accent.
	assert.Equal(t, "Día/Hora", NormalizeHeader("Di\u0301a/Hora "))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.XLS"))
	assert.True(t, IsSupported("a.xlsx"))
	assert.True(t, IsSupported("a.csv"))
	assert.False(t, IsSupported("a.txt"))
}
