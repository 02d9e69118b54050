package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/treatyview/internal/models"
)

func rawRow(values map[Field]string) *RawRow {
	row := &RawRow{}
	for f, v := range values {
		row.values[f] = v
	}
	return row
}

func TestNormalize(t *testing.T) {
	p, ok := Normalize(rawRow(map[Field]string{
		FieldUY:               " 2020 ",
		FieldBroker:           "  ABC  Re ",
		FieldCedant:           "   ",
		FieldCountry:          "Kenya",
		FieldInceptionYear:    "2020.0",
		FieldInceptionQuarter: " q1 ",
		FieldGrossUWPrem:      "1,000.50",
		FieldGrossActualAcq:   "abc",
		FieldGrossPaidClaims:  "NaN",
		FieldGrossOSLoss:      "-10",
	}))
	require.True(t, ok)

	assert.Equal(t, models.Label{Raw: "2020", Key: "2020"}, p.UY)
	require.NotNil(t, p.Broker)
	assert.Equal(t, "ABC  Re", p.Broker.Raw)
	assert.Equal(t, "abc re", p.Broker.Key)
	assert.Nil(t, p.Cedant, "blank identity fields are absent, not empty")
	assert.Nil(t, p.Insured)
	require.NotNil(t, p.InceptionYear)
	assert.Equal(t, 2020, *p.InceptionYear)
	assert.Equal(t, "q1", p.InceptionQuarter)

	assert.Equal(t, 1000.5, p.GrossUWPrem)
	assert.Equal(t, 0.0, p.GrossActualAcq)
	assert.Equal(t, 0.0, p.GrossPaidClaims)
	assert.Equal(t, 0.0, p.GrossOSLoss)
}

func TestNormalize_RejectsEmptyUY(t *testing.T) {
	_, ok := Normalize(rawRow(map[Field]string{FieldUY: "  ", FieldGrossUWPrem: "100"}))
	assert.False(t, ok)
}

func TestNormalize_Idempotent(t *testing.T) {
	first, ok := Normalize(rawRow(map[Field]string{
		FieldUY:      "2020",
		FieldBroker:  " Aon  Benfield ",
		FieldCountry: "  Côte d'Ivoire",
		FieldHub:     "Abidjan ",
	}))
	require.True(t, ok)

	second, ok := Normalize(rawRow(map[Field]string{
		FieldUY:      first.UY.Raw,
		FieldBroker:  first.Broker.Raw,
		FieldCountry: first.Country.Raw,
		FieldHub:     first.Hub.Raw,
	}))
	require.True(t, ok)

	assert.Equal(t, first, second)
}

func TestParseYear(t *testing.T) {
	assert.Nil(t, parseYear(""))
	assert.Nil(t, parseYear("twenty"))
	require.NotNil(t, parseYear(" 2019 "))
	assert.Equal(t, 2019, *parseYear(" 2019 "))
}
