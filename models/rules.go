package models

// RuleSet is the static configuration the schema validator runs against:
// the categorical enumerations and the numeric thresholds.
type RuleSet struct {
	AllowedStates      []string `yaml:"allowed_states" validate:"required,min=1,dive,required"`
	AllowedPets        []string `yaml:"allowed_pets" validate:"required,min=1,dive,required"`
	AllowedFee         []string `yaml:"allowed_fee" validate:"required,min=1,dive,required"`
	AllowedHasPhoto    []string `yaml:"allowed_has_photo" validate:"required,min=1,dive,required"`
	MaxMissingFraction float64  `yaml:"max_missing_fraction" validate:"gte=0,lte=1"`
	IQRMultiplier      float64  `yaml:"iqr_multiplier" validate:"gt=0"`
	MinPositiveRate    float64  `yaml:"min_positive_rate" validate:"gte=0,lt=1"`
	MaxPositiveRate    float64  `yaml:"max_positive_rate" validate:"gt=0,lte=1,gtfield=MinPositiveRate"`
	MaxCorrelation     float64  `yaml:"max_correlation" validate:"gt=0,lte=1"`
}

// ColumnKind says how a column's values are checked.
type ColumnKind int

const (
	KindNumeric ColumnKind = iota
	KindCategorical
	KindLabel
)

// Bound is a lower limit a numeric column must respect.
type Bound int

const (
	BoundNone Bound = iota
	BoundPositive
	BoundNonNegative
)

// ColumnRule declares the checks for a single column.
type ColumnRule struct {
	Name      string
	Kind      ColumnKind
	Nullable  bool
	Bound     Bound
	Allowed   []string
	MinLength int
}

// Schema is the declarative description of a cleaned, target-derived table.
type Schema struct {
	Columns        []ColumnRule
	NumericColumns []string
	Label          string
}

// ValidationSchema builds the listing schema from the rule set.
func (rs *RuleSet) ValidationSchema() Schema {
	return Schema{
		Columns: []ColumnRule{
			{Name: ColPrice, Kind: KindNumeric, Bound: BoundPositive},
			{Name: ColSquareFeet, Kind: KindNumeric, Bound: BoundPositive},
			{Name: ColBathrooms, Kind: KindNumeric, Bound: BoundNonNegative},
			{Name: ColBedrooms, Kind: KindNumeric, Bound: BoundNonNegative},
			{Name: ColState, Kind: KindCategorical, Allowed: rs.AllowedStates, MinLength: 1},
			{Name: ColPetsAllowed, Kind: KindCategorical, Nullable: true, Allowed: rs.AllowedPets},
			{Name: ColFee, Kind: KindCategorical, Nullable: true, Allowed: rs.AllowedFee},
			{Name: ColHasPhoto, Kind: KindCategorical, Allowed: rs.AllowedHasPhoto},
			{Name: ColStateMedianPrice, Kind: KindNumeric, Bound: BoundPositive},
			{Name: ColHighPrice, Kind: KindLabel, Allowed: []string{"0", "1"}},
		},
		NumericColumns: []string{
			ColPrice, ColSquareFeet, ColBathrooms, ColBedrooms, ColStateMedianPrice,
		},
		Label: ColHighPrice,
	}
}
