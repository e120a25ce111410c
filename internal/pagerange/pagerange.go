// Package pagerange parses page-range expressions like "1-3,5,7-9" into
// zero-based page indices.
package pagerange

import (
	"strconv"
	"strings"

	"github.com/local/pdfdesk/internal/operr"
)

const op = "pages"

// Parse resolves a range expression against a document of maxPage pages.
// Indices come out zero-based, in first-occurrence order, with duplicates
// dropped. Ranges expand left to right. An expression with no tokens
// yields an empty result and no error.
func Parse(expr string, maxPage int) ([]int, error) {
	var indices []int
	seen := make(map[int]bool)

	add := func(page int) {
		idx := page - 1
		if seen[idx] {
			return
		}
		seen[idx] = true
		indices = append(indices, idx)
	}

	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if strings.Contains(token, "-") {
			first, last, err := parseSpan(token, maxPage)
			if err != nil {
				return nil, err
			}
			for p := first; p <= last; p++ {
				add(p)
			}
			continue
		}

		page, err := parsePage(token, maxPage)
		if err != nil {
			return nil, err
		}
		add(page)
	}

	return indices, nil
}

func parseSpan(token string, maxPage int) (int, int, error) {
	parts := strings.Split(token, "-")
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return 0, 0, operr.New(operr.KindMalformed, op, "invalid range %q", token)
	}

	first, errFirst := strconv.Atoi(parts[0])
	last, errLast := strconv.Atoi(parts[1])
	if errFirst != nil || errLast != nil || first < 1 || last > maxPage || first > last {
		return 0, 0, operr.New(operr.KindOutOfBounds, op, "range out of bounds %q", token)
	}
	return first, last, nil
}

func parsePage(token string, maxPage int) (int, error) {
	if !isDigits(token) {
		return 0, operr.New(operr.KindMalformed, op, "invalid page %q", token)
	}

	page, err := strconv.Atoi(token)
	if err != nil || page < 1 || page > maxPage {
		return 0, operr.New(operr.KindOutOfBounds, op, "page out of bounds %q", token)
	}
	return page, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
