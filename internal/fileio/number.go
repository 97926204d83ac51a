package fileio

import (
	"regexp"
	"strconv"
	"strings"
)

var keepNums = regexp.MustCompile(`[^\d.\-]`)

// ParseFloatSE parses Swedish-formatted numbers: "1 234,50", "249,00 kr",
// NBSP thousands separators, parenthesized negatives.
func ParseFloatSE(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	repl := strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "", ",", ".")
	s = repl.Replace(s)
	s = keepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// ParseIntSE parses a stock count, tolerating decimals ("3,0") and junk
// suffixes ("12 st").
func ParseIntSE(s string) (int, bool) {
	f, ok := ParseFloatSE(s)
	if !ok {
		return 0, false
	}
	return int(f), true
}
