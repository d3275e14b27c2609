package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vigat-bahee/internal/domain/tithi"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func parseDateRequired(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return tithi.ParseDate(value)
}

// parseDateParam returns the zero time for an empty value.
func parseDateParam(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return tithi.ParseDate(value)
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parseBoolParam(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}

func parsePage(limitValue, offsetValue string) (int, int, error) {
	limit, err := parseIntParam(limitValue, defaultPageSize)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid limit")
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := parseIntParam(offsetValue, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid offset")
	}
	return limit, offset, nil
}
