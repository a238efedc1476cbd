package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Values is the sequence emitted by a run when none is passed.
var Values = []int{1, 2, 3, 4, 5}

// Threshold is the largest value allowed through the inspection stage.
var Threshold = 3

var LogLevel string

func init() {
	// a missing .env is fine
	_ = godotenv.Load()

	if s := os.Getenv("VALUES"); s != "" {
		Values = Must(ParseValues(s))
	}
	if s := os.Getenv("THRESHOLD"); s != "" {
		Threshold = Must(strconv.Atoi(strings.TrimSpace(s)))
	}

	LogLevel = os.Getenv("LOG_LEVEL")
	if LogLevel == "" {
		LogLevel = "info"
	}
}

// ParseValues parses a comma separated list of integers. Blank input is an
// empty sequence.
func ParseValues(s string) ([]int, error) {
	values := []int{}
	if strings.TrimSpace(s) == "" {
		return values, nil
	}
	for part := range strings.SplitSeq(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parsing value %q: %w", part, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// FormatValues is the inverse of ParseValues.
func FormatValues(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func Must[T any](ret T, err error) T {
	if err != nil {
		panic(err)
	}
	return ret
}
