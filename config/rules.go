package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"rental-pipeline/models"
)

// DefaultRules returns the built-in enumerations and thresholds: the 50
// states plus DC, the pet, fee and photo categories seen in the source data,
// a 5% missing tolerance, the 1.5·IQR outlier fence, a 5%/95% label balance
// guard and a 0.9 correlation ceiling.
func DefaultRules() models.RuleSet {
	return models.RuleSet{
		AllowedStates: []string{
			"CA", "VA", "NM", "CO", "WV", "WA", "TX", "IL", "MS", "OR",
			"FL", "MO", "PA", "IA", "WI", "NC", "GA", "OK", "RI", "NJ",
			"IN", "MD", "OH", "ND", "NE", "DC", "AZ", "MA", "MI", "SC",
			"ID", "MN", "KS", "TN", "UT", "KY", "SD", "LA", "AK", "AR",
			"AL", "CT", "NY", "NV", "HI", "WY", "VT", "NH", "MT", "DE",
			"ME",
		},
		AllowedPets:        []string{"Cats", "Cats,Dogs", "Dogs", "Cats,Dogs,None"},
		AllowedFee:         []string{"No", "Yes"},
		AllowedHasPhoto:    []string{"Thumbnail", "Yes", "No"},
		MaxMissingFraction: 0.05,
		IQRMultiplier:      1.5,
		MinPositiveRate:    0.05,
		MaxPositiveRate:    0.95,
		MaxCorrelation:     0.9,
	}
}

// LoadRules returns DefaultRules overlaid with the YAML file at path. Keys
// absent from the file keep their defaults. An empty path means defaults.
func LoadRules(path string) (models.RuleSet, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("config: read rules file %q: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &rules); err != nil {
		return rules, fmt.Errorf("config: parse rules file %q: %w", path, err)
	}
	if err := validate.Struct(&rules); err != nil {
		return rules, fmt.Errorf("config: rules file %q: %w", path, err)
	}
	return rules, nil
}
