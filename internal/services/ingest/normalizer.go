package ingest

import (
	"strconv"
	"strings"

	"github.com/ternarybob/treatyview/internal/common"
	"github.com/ternarybob/treatyview/internal/models"
)

// Normalize converts a raw row into a canonical policy. It returns false when
// the row has no underwriting year, the only mandatory field.
// Bad numbers never reject a row, they become 0.
func Normalize(row *RawRow) (models.Policy, bool) {
	uy := models.NormalizeLabel(row.Get(FieldUY))
	if uy.Raw == "" {
		return models.Policy{}, false
	}

	return models.Policy{
		UY:      uy,
		ExtType: models.NormalizeLabel(row.Get(FieldExtType)),
		Broker:  models.NullableLabel(row.Get(FieldBroker)),
		Cedant:  models.NullableLabel(row.Get(FieldCedant)),
		Insured: models.NullableLabel(row.Get(FieldInsured)),
		Country: models.NormalizeLabel(row.Get(FieldCountry)),
		Region:  models.NormalizeLabel(row.Get(FieldRegion)),
		Hub:     models.NormalizeLabel(row.Get(FieldHub)),

		InceptionYear:    parseYear(row.Get(FieldInceptionYear)),
		InceptionQuarter: strings.TrimSpace(row.Get(FieldInceptionQuarter)),
		InceptionMonth:   strings.TrimSpace(row.Get(FieldInceptionMonth)),
		ComDate:          strings.TrimSpace(row.Get(FieldComDate)),

		MaxLiability:    common.ParseAmount(row.Get(FieldMaxLiability)),
		GrossUWPrem:     common.ParseAmount(row.Get(FieldGrossUWPrem)),
		GrossBookPrem:   common.ParseAmount(row.Get(FieldGrossBookPrem)),
		GrossActualAcq:  common.ParseAmount(row.Get(FieldGrossActualAcq)),
		GrossPaidClaims: common.ParseAmount(row.Get(FieldGrossPaidClaims)),
		GrossOSLoss:     common.ParseAmount(row.Get(FieldGrossOSLoss)),
	}, true
}

// parseYear accepts "2020" and spreadsheet artefacts such as "2020.0"
func parseYear(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, ".0")

	year, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &year
}
