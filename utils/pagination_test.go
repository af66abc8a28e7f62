package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedPage   int
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults", "", 1, 10, 0},
		{"explicit page and limit", "?page=3&limit=20", 3, 20, 40},
		{"limit capped at 100", "?limit=5000", 1, 100, 0},
		{"negative page falls back", "?page=-2", 1, 10, 0},
		{"zero limit falls back", "?limit=0", 1, 10, 0},
		{"garbage values fall back", "?page=abc&limit=xyz", 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/farms"+tt.query, nil)
			page, limit, offset := ParsePagination(r)
			if page != tt.expectedPage || limit != tt.expectedLimit || offset != tt.expectedOffset {
				t.Errorf("ParsePagination(%q) = (%d, %d, %d), expected (%d, %d, %d)",
					tt.query, page, limit, offset, tt.expectedPage, tt.expectedLimit, tt.expectedOffset)
			}
		})
	}
}
