package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseIDParam extracts a positive numeric path parameter
func ParseIDParam(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// ParseIDList parses a comma separated list of ids such as "1,2,3". Blank
// entries are skipped; an empty string yields no ids.
func ParseIDList(raw string) ([]uint64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetFlagQuery reads a boolean query parameter. "1" and "true" turn it on;
// anything else, including absence, leaves it off.
func GetFlagQuery(c *gin.Context, name string) bool {
	switch strings.ToLower(c.Query(name)) {
	case "1", "true":
		return true
	default:
		return false
	}
}
