package models

// Bucket is one group of an aggregation. Derived measures are always
// computed from the bucket's own sums, never averaged from member ratios.
type Bucket struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	PolicyCount int    `json:"policy_count"`

	// Base measures
	Premium     float64 `json:"premium"`
	Acquisition float64 `json:"acquisition"`
	PaidClaims  float64 `json:"paid_claims"`
	OSLoss      float64 `json:"os_loss"`

	// Derived measures
	IncurredClaims   float64 `json:"incurred_claims"`
	TechnicalResult  float64 `json:"technical_result"`
	LossRatioPct     float64 `json:"loss_ratio_pct"`
	AcquisitionPct   float64 `json:"acquisition_pct"`
	CombinedRatioPct float64 `json:"combined_ratio_pct"`

	// Share of the summary total premium; only set on dimension summaries
	PremiumSharePct float64 `json:"premium_share_pct,omitempty"`
}

// PeriodSummary is a complete calendar grid of buckets plus their total
type PeriodSummary struct {
	Granularity Granularity `json:"granularity"`
	Year        *int        `json:"year,omitempty"`
	Buckets     []Bucket    `json:"buckets"`
	Total       Bucket      `json:"total"`
	Unresolved  int         `json:"unresolved"` // Policies left out because their period did not resolve
}

// DimensionSummary is a premium-ordered breakdown by one dimension. Total
// covers every group, including those cut by Top.
type DimensionSummary struct {
	Dimension  Dimension `json:"dimension"`
	Buckets    []Bucket  `json:"buckets"`
	Total      Bucket    `json:"total"`
	GroupCount int       `json:"group_count"`
	Truncated  bool      `json:"truncated"`
	Excluded   int       `json:"excluded"` // Policies without a value for the dimension
}
