package restart

import (
	"fmt"
	"strconv"
	"strings"
)

func encodeFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', 17, 64)
	}
	return strings.Join(parts, " ")
}

func encodeInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func decodeFloats(text string) ([]float64, error) {
	fields := strings.Fields(text)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("restart: malformed float %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

func decodeInts(text string) ([]int, error) {
	fields := strings.Fields(text)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("restart: malformed int %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}
