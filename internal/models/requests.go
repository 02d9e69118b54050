package models

// FilterRequest selects policies for the filtered data view
type FilterRequest struct {
	Selections Selections `json:"selections"`
	Limit      int        `json:"limit" validate:"gte=0"`
}

// PeriodRequest asks for a period summary
type PeriodRequest struct {
	Granularity Granularity `json:"granularity" validate:"required,oneof=monthly quarterly yearly"`
	Year        *int        `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2999"`
	Selections  Selections  `json:"selections"`
}

// DimensionRequest asks for a breakdown by one dimension
type DimensionRequest struct {
	Dimension  Dimension  `json:"dimension" validate:"required"`
	Top        int        `json:"top" validate:"gte=0,lte=1000"`
	Selections Selections `json:"selections"`
}
