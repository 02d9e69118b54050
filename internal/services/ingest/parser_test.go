package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader(t *testing.T) *HeaderMap {
	t.Helper()
	h, err := BuildHeaderMap([]string{"UY", "Broker Name", "Gross UW Prem", "Gross Actual Acq.", "Gross Paid Claims", "Gross OS Loss"})
	require.NoError(t, err)
	return h
}

func TestParseLine(t *testing.T) {
	h := testHeader(t)

	row, ok := ParseLine(h, `2020,"Aon, Kenya","1,000",200,100,50`, ',')
	require.True(t, ok)

	assert.Equal(t, "2020", row.Get(FieldUY))
	assert.Equal(t, "Aon, Kenya", row.Get(FieldBroker))
	assert.Equal(t, "1,000", row.Get(FieldGrossUWPrem))
	assert.Equal(t, "", row.Get(FieldCountry), "absent optional column reads empty")
}

func TestParseLine_ShortRowSkipped(t *testing.T) {
	h := testHeader(t)

	row, ok := ParseLine(h, "2020,Aon,1000", ',')
	assert.False(t, ok)
	assert.Nil(t, row)
}

func TestParseLine_Semicolon(t *testing.T) {
	h := testHeader(t)

	row, ok := ParseLine(h, "2021;Marsh;10;1;2;3", ';')
	require.True(t, ok)
	assert.Equal(t, "Marsh", row.Get(FieldBroker))
}

func TestParseRow_StripsLeftoverQuotes(t *testing.T) {
	h := testHeader(t)

	row, ok := ParseRow(h, []string{" '2020' ", `"Aon"`, "1", "2", "3", "4", "extra"})
	require.True(t, ok)
	assert.Equal(t, "2020", row.Get(FieldUY))
	assert.Equal(t, "Aon", row.Get(FieldBroker))
}

func TestParseRow_NilHeader(t *testing.T) {
	_, ok := ParseRow(nil, []string{"2020"})
	assert.False(t, ok)
}
