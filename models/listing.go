package models

import "database/sql"

// Column names of the rental listing table.
const (
	ColPrice            = "price"
	ColSquareFeet       = "square_feet"
	ColBathrooms        = "bathrooms"
	ColBedrooms         = "bedrooms"
	ColState            = "state"
	ColPetsAllowed      = "pets_allowed"
	ColFee              = "fee"
	ColHasPhoto         = "has_photo"
	ColStateMedianPrice = "state_median_price"
	ColHighPrice        = "high_price"
)

// RequiredColumns is the fixed column set kept from a raw table, in output order.
var RequiredColumns = []string{
	ColPrice, ColSquareFeet, ColBathrooms, ColBedrooms,
	ColState, ColPetsAllowed, ColFee, ColHasPhoto,
}

// NumericColumns are coerced to float during selection.
var NumericColumns = []string{ColPrice, ColSquareFeet, ColBathrooms, ColBedrooms}

// FeatureColumns are written to the X_train / X_test splits.
var FeatureColumns = []string{
	ColSquareFeet, ColBathrooms, ColBedrooms,
	ColState, ColPetsAllowed, ColFee, ColHasPhoto,
}

// Model inputs: numeric features are passed through, the rest one-hot encoded.
// bedrooms is one-hot encoded like the other categories.
var (
	ModelNumericFeatures     = []string{ColSquareFeet, ColBathrooms}
	ModelCategoricalFeatures = []string{ColBedrooms, ColState, ColPetsAllowed, ColFee, ColHasPhoto}
)

// RawListing holds one unprocessed row as stored in a source database table.
// Every field is text; NULLs survive as invalid NullStrings until loading.
type RawListing struct {
	Price       sql.NullString `db:"price"`
	SquareFeet  sql.NullString `db:"square_feet"`
	Bathrooms   sql.NullString `db:"bathrooms"`
	Bedrooms    sql.NullString `db:"bedrooms"`
	State       sql.NullString `db:"state"`
	PetsAllowed sql.NullString `db:"pets_allowed"`
	Fee         sql.NullString `db:"fee"`
	HasPhoto    sql.NullString `db:"has_photo"`
}

// Record returns the listing as a CSV-style record in RequiredColumns order.
// NULL columns become empty strings, which the loader treats as missing.
func (r *RawListing) Record() []string {
	fields := []sql.NullString{
		r.Price, r.SquareFeet, r.Bathrooms, r.Bedrooms,
		r.State, r.PetsAllowed, r.Fee, r.HasPhoto,
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		if f.Valid {
			out[i] = f.String
		}
	}
	return out
}
