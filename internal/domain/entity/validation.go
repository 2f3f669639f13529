package entity

import "strconv"

// ParseYear validates the raw year path parameter and converts it to an int.
// min and max are the inclusive bounds of the loaded dataset.
func ParseYear(raw string, min, max int) (int, error) {
	if raw == "" {
		return 0, NewValidationError(CodeMissingParameter, "year parameter is required")
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewValidationError(CodeInvalidFormat,
			"year must be a number, got %q", raw)
	}
	if year < min || year > max {
		return 0, NewValidationError(CodeOutOfRange,
			"year must be between %d and %d, got %d", min, max, year)
	}
	return year, nil
}
