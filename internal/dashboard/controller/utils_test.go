package controller

import (
	"net/http/httptest"
	"testing"
)

func Test_parseIndexQuery(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		wantPage      int
		wantPageSize  int
		wantUnlabeled bool
	}{
		{name: "defaults", target: "/", wantPage: 1, wantPageSize: 25},
		{name: "explicit page and size", target: "/?page=3&page_size=50", wantPage: 3, wantPageSize: 50},
		{name: "unlabeled filter", target: "/?filter=unlabeled", wantPage: 1, wantPageSize: 25, wantUnlabeled: true},
		{name: "other filter ignored", target: "/?filter=labeled", wantPage: 1, wantPageSize: 25},
		{name: "invalid page falls back", target: "/?page=zero", wantPage: 1, wantPageSize: 25},
		{name: "negative page falls back", target: "/?page=-2", wantPage: 1, wantPageSize: 25},
		{name: "oversized page size clamped", target: "/?page_size=10000", wantPage: 1, wantPageSize: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			page, pageSize, unlabeled := parseIndexQuery(req)
			if page != tt.wantPage {
				t.Errorf("page = %d; want %d", page, tt.wantPage)
			}
			if pageSize != tt.wantPageSize {
				t.Errorf("pageSize = %d; want %d", pageSize, tt.wantPageSize)
			}
			if unlabeled != tt.wantUnlabeled {
				t.Errorf("onlyUnlabeled = %v; want %v", unlabeled, tt.wantUnlabeled)
			}
		})
	}
}
