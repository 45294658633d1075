package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/types"
	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/views"
)

type labelCall struct {
	id     int64
	rained *bool
}

type mockRepo struct {
	readings    []types.Reading
	readingsErr error
	count       int
	countErr    error
	all         []types.Reading
	allErr      error

	labels   []labelCall
	labelErr error
}

func (m *mockRepo) GetReadings(limit, offset int, onlyUnlabeled bool) ([]types.Reading, error) {
	return m.readings, m.readingsErr
}

func (m *mockRepo) CountReadings(onlyUnlabeled bool) (int, error) {
	return m.count, m.countErr
}

func (m *mockRepo) GetAllReadings() ([]types.Reading, error) {
	return m.all, m.allErr
}

func (m *mockRepo) SetRainLabel(id int64, rained *bool) error {
	m.labels = append(m.labels, labelCall{id: id, rained: rained})
	return m.labelErr
}

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func mustLoadTemplates(t *testing.T) {
	t.Helper()
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
}

func Test_handleIndex(t *testing.T) {
	mustLoadTemplates(t)

	t.Run("returns 404 when path is not /", func(t *testing.T) {
		ctrl := NewDashboardController(&mockRepo{}).(*dashboardControllerImpl)
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		rec := httptest.NewRecorder()

		ctrl.handleIndex(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("renders readings page", func(t *testing.T) {
		repo := &mockRepo{
			readings: []types.Reading{
				{ID: 7, Timestamp: "2026-08-30T12:00:00Z", Temperature: f(21.5), Rained: b(true)},
			},
			count: 51,
		}
		ctrl := NewDashboardController(repo).(*dashboardControllerImpl)
		req := httptest.NewRequest(http.MethodGet, "/?page=2", nil)
		rec := httptest.NewRecorder()

		ctrl.handleIndex(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "21.50") {
			t.Errorf("body does not contain the temperature; got %q", body)
		}
		if !strings.Contains(body, "rained_7") {
			t.Errorf("body does not contain the rain label select for row 7")
		}
		// 51 rows at the default page size of 25 is 3 pages.
		if !strings.Contains(body, "Page 2 of 3") {
			t.Errorf("body does not contain the pagination state")
		}
	})

	t.Run("returns 500 when repository fails", func(t *testing.T) {
		repo := &mockRepo{countErr: errors.New("boom")}
		ctrl := NewDashboardController(repo).(*dashboardControllerImpl)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		ctrl.handleIndex(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
	})
}

func Test_handleUpdate(t *testing.T) {
	t.Run("applies submitted labels and redirects", func(t *testing.T) {
		repo := &mockRepo{}
		ctrl := NewDashboardController(repo).(*dashboardControllerImpl)

		form := url.Values{}
		form.Set("rained_3", "1")
		form.Set("rained_4", "0")
		form.Set("rained_5", "")
		req := httptest.NewRequest(http.MethodPost, "/update?page=2&page_size=25", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		ctrl.handleUpdate(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusSeeOther)
		}
		if len(repo.labels) != 3 {
			t.Fatalf("got %d label updates; want 3", len(repo.labels))
		}
		byID := make(map[int64]*bool, len(repo.labels))
		for _, c := range repo.labels {
			byID[c.id] = c.rained
		}
		if v := byID[3]; v == nil || !*v {
			t.Errorf("label for id 3 = %v; want true", v)
		}
		if v := byID[4]; v == nil || *v {
			t.Errorf("label for id 4 = %v; want false", v)
		}
		if v, ok := byID[5]; !ok || v != nil {
			t.Errorf("label for id 5 = %v (present=%v); want cleared", v, ok)
		}
		loc := rec.Header().Get("Location")
		if !strings.Contains(loc, "page=2") || !strings.Contains(loc, "updated=3") {
			t.Errorf("redirect location = %q; want page and updated count preserved", loc)
		}
	})

	t.Run("skips invalid values and ids", func(t *testing.T) {
		repo := &mockRepo{}
		ctrl := NewDashboardController(repo).(*dashboardControllerImpl)

		form := url.Values{}
		form.Set("rained_3", "maybe")
		form.Set("rained_abc", "1")
		form.Set("other_field", "1")
		req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		ctrl.handleUpdate(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusSeeOther)
		}
		if len(repo.labels) != 0 {
			t.Errorf("got %d label updates; want 0", len(repo.labels))
		}
	})

	t.Run("returns 500 when the repository fails", func(t *testing.T) {
		repo := &mockRepo{labelErr: errors.New("boom")}
		ctrl := NewDashboardController(repo).(*dashboardControllerImpl)

		form := url.Values{}
		form.Set("rained_3", "1")
		req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		ctrl.handleUpdate(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
	})
}

func Test_handleExportCSV(t *testing.T) {
	repo := &mockRepo{
		all: []types.Reading{
			{ID: 1, Timestamp: "2026-08-30T12:00:00Z", Temperature: f(21.5), Rained: b(false)},
			{ID: 2, Timestamp: "2026-08-30T12:01:00Z"},
		},
	}
	ctrl := NewDashboardController(repo).(*dashboardControllerImpl)
	req := httptest.NewRequest(http.MethodGet, "/export.csv", nil)
	rec := httptest.NewRecorder()

	ctrl.handleExportCSV(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q; want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "weather_dataset.csv") {
		t.Errorf("Content-Disposition = %q; want attachment filename", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d csv lines; want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,timestamp,temperature") {
		t.Errorf("csv header = %q; want schema column order", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,2026-08-30T12:00:00Z,21.5") {
		t.Errorf("first row = %q; want id, timestamp, temperature", lines[1])
	}
	// Unlabeled rain exports as an empty field, labeled as 0/1.
	first := strings.Split(lines[1], ",")
	second := strings.Split(lines[2], ",")
	if first[12] != "0" {
		t.Errorf("rained field of row 1 = %q; want 0", first[12])
	}
	if second[12] != "" {
		t.Errorf("rained field of row 2 = %q; want empty", second[12])
	}
}
