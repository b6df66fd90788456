package server

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errMissingID = errors.New("missing id")
	errInvalidID = errors.New("invalid id")
)

// parseID reads a positive integer todo id.
func parseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errMissingID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// shorten trims task text for flash and activity lines.
func shorten(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
