package jsondoc

import (
	"strings"
)

// IsJSON checks if a string value looks like a JSON document
func IsJSON(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return false
	}
	return Valid([]byte(value))
}
