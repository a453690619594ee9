package utils

import (
	"fmt"
	"strconv"
)

// ParsePositiveInt parses a query-style integer and rejects zero and
// negative values.
func ParsePositiveInt(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("value must be positive, got %d", v)
	}
	return v, nil
}
