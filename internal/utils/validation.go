package utils

import (
	"errors"
	"strings"
	"unicode"
)

// ValidateRepresentative validates a representative name taken from a request. Names are
// exact-match keys into the daily dataset, so only blanks and control characters are refused.
func ValidateRepresentative(name string) error {
	return validateName("representative", name)
}

// ValidateMetric validates a metric (column) name taken from a request.
func ValidateMetric(metric string) error {
	return validateName("metric", metric)
}

func validateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(field + " cannot be empty")
	}

	if strings.IndexFunc(value, unicode.IsControl) >= 0 {
		return errors.New(field + " contains invalid characters")
	}

	return nil
}

// ValidateSelectionParams collects field errors for a representative and an optional metric.
func ValidateSelectionParams(representative, metric string) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateRepresentative(representative); err != nil {
		fieldErrors["representative"] = append(fieldErrors["representative"], err.Error())
	}

	if metric != "" {
		if err := ValidateMetric(metric); err != nil {
			fieldErrors["metric"] = append(fieldErrors["metric"], err.Error())
		}
	}

	return fieldErrors
}
