package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requiredHeaders = []string{"UY", "Gross UW Prem", "Gross Actual Acq.", "Gross Paid Claims", "Gross OS Loss"}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "gross actual acq", normalizeHeader(" Gross  Actual Acq. "))
	assert.Equal(t, "org insured treaty name", normalizeHeader("Org Insured/Treaty Name"))
	assert.Equal(t, "uy", normalizeHeader("\ufeffUY"))
}

func TestBuildHeaderMap_RequiredOnly(t *testing.T) {
	h, err := BuildHeaderMap(requiredHeaders)
	require.NoError(t, err)

	assert.Equal(t, 5, h.Width())
	assert.Equal(t, 0, h.Position(FieldUY))
	assert.Equal(t, 1, h.Position(FieldGrossUWPrem))
	assert.False(t, h.Has(FieldBroker))
	assert.Equal(t, -1, h.Position(FieldGrossBookPrem))
}

func TestBuildHeaderMap_DistinguishesSimilarColumns(t *testing.T) {
	headers := append([]string{"Gross Book Prem"}, requiredHeaders...)
	h, err := BuildHeaderMap(headers)
	require.NoError(t, err)

	assert.Equal(t, 0, h.Position(FieldGrossBookPrem))
	assert.Equal(t, 2, h.Position(FieldGrossUWPrem))
}

func TestBuildHeaderMap_CaseAndPunctuationInsensitive(t *testing.T) {
	h, err := BuildHeaderMap([]string{"uy", "GROSS UW PREM", "gross actual acq", "Gross Paid Claims ", "gross os loss", "Broker", "Notes"})
	require.NoError(t, err)

	assert.Equal(t, 5, h.Position(FieldBroker))
	assert.Equal(t, []string{"Notes"}, h.Unknown())
}

func TestBuildHeaderMap_MissingColumn(t *testing.T) {
	_, err := BuildHeaderMap([]string{"UY", "Gross UW Prem", "Gross Paid Claims"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Gross Actual Acq.")
	assert.Contains(t, err.Error(), "Gross OS Loss")
}

func TestBuildHeaderMap_Ambiguous(t *testing.T) {
	headers := append([]string{"Broker", "Broker Name"}, requiredHeaders...)
	_, err := BuildHeaderMap(headers)
	assert.ErrorIs(t, err, ErrAmbiguousColumn)
}
