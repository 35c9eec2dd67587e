package pkg

import (
	"testing"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero defaults", 0, 1},
		{"negative defaults", -3, 1},
		{"valid passes through", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePage(tt.in); got != tt.want {
				t.Errorf("NormalizePage(%d) = %d; want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePageSize(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero defaults", 0, 20},
		{"negative defaults", -1, 20},
		{"valid passes through", 50, 50},
		{"max passes through", 100, 100},
		{"over max clamps", 500, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePageSize(tt.in); got != tt.want {
				t.Errorf("NormalizePageSize(%d) = %d; want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		page, pageSize int
		offset, limit  int
	}{
		{1, 20, 0, 20},
		{2, 20, 20, 20},
		{3, 15, 30, 15},
	}
	for _, tt := range tests {
		offset, limit := Window(tt.page, tt.pageSize)
		if offset != tt.offset || limit != tt.limit {
			t.Errorf("Window(%d, %d) = (%d, %d); want (%d, %d)",
				tt.page, tt.pageSize, offset, limit, tt.offset, tt.limit)
		}
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		page        int
		pageSize    int
		totalPages  int
		hasNextPage bool
		hasPrevPage bool
	}{
		{"empty result", 0, 1, 20, 0, false, false},
		{"single page", 5, 1, 20, 1, false, false},
		{"first of many", 45, 1, 20, 3, true, false},
		{"middle page", 45, 2, 20, 3, true, true},
		{"last page", 45, 3, 20, 3, false, true},
		{"past the end", 45, 9, 20, 3, false, true},
		{"exact multiple", 40, 2, 20, 2, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.pageSize)
			if p.Total != tt.total || p.Page != tt.page || p.PageSize != tt.pageSize {
				t.Errorf("echo fields wrong: %+v", p)
			}
			if p.TotalPages != tt.totalPages {
				t.Errorf("TotalPages = %d; want %d", p.TotalPages, tt.totalPages)
			}
			if p.HasNextPage != tt.hasNextPage {
				t.Errorf("HasNextPage = %v; want %v", p.HasNextPage, tt.hasNextPage)
			}
			if p.HasPrevPage != tt.hasPrevPage {
				t.Errorf("HasPrevPage = %v; want %v", p.HasPrevPage, tt.hasPrevPage)
			}
		})
	}
}
