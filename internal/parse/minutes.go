package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	minutesRe = regexp.MustCompile(`(?i)^(\d+)\s*(?:m|min|mins|minute|minutes)?$`)
	dryerRe   = regexp.MustCompile(`(?i)^(?:d|dryer)?\s*#?\s*(\d+)$`)
)

// Minutes reads a cycle length such as "44", "44m" or "44 min".
func Minutes(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	m := minutesRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("unable to parse minutes: %q", raw)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("unable to parse minutes: %q", raw)
	}
	return n, nil
}

// Dryer reads a dryer reference such as "2", "d2" or "Dryer 2".
func Dryer(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	m := dryerRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("unable to parse dryer: %q", raw)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("unable to parse dryer: %q", raw)
	}
	return n, nil
}
