package mirror

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeSource struct {
	rec *Record
	err error
}

func (s *fakeSource) Fetch(_ context.Context) (*Record, error) { return s.rec, s.err }

type fakeRepo struct {
	last  *LastReading
	saved []Record
}

func (r *fakeRepo) Last() (*LastReading, error) { return r.last, nil }
func (r *fakeRepo) Save(rec Record) error {
	r.saved = append(r.saved, rec)
	return nil
}
func (r *fakeRepo) Count() (int, error) { return len(r.saved), nil }

type fakeEnricher struct {
	cond  *Conditions
	err   error
	calls int
}

func (e *fakeEnricher) Current(_ context.Context, _, _ float64) (*Conditions, error) {
	e.calls++
	return e.cond, e.err
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunOnceSavesNewReading(t *testing.T) {
	rec := baseRecord()
	repo := &fakeRepo{}
	svc := NewService(&fakeSource{rec: &rec}, repo, nil, time.Minute, testLogger())

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d records; want 1", len(repo.saved))
	}
}

func TestRunOnceSkipsUnchangedReading(t *testing.T) {
	rec := baseRecord()
	repo := &fakeRepo{last: matchingLast()}
	svc := NewService(&fakeSource{rec: &rec}, repo, nil, time.Minute, testLogger())

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("saved %d records for unchanged reading; want 0", len(repo.saved))
	}
}

func TestRunOnceEmptyDatabase(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(&fakeSource{rec: nil}, repo, nil, time.Minute, testLogger())

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("saved %d records with empty database; want 0", len(repo.saved))
	}
}

func TestRunOnceFetchErrorPropagates(t *testing.T) {
	svc := NewService(&fakeSource{err: errors.New("boom")}, &fakeRepo{}, nil, time.Minute, testLogger())
	if err := svc.RunOnce(context.Background()); err == nil {
		t.Fatal("RunOnce returned nil for fetch failure")
	}
}

func TestRunOnceEnrichesWhenPositionKnown(t *testing.T) {
	rec := baseRecord()
	repo := &fakeRepo{}
	enr := &fakeEnricher{cond: &Conditions{CloudCover: f(50.0)}}
	svc := NewService(&fakeSource{rec: &rec}, repo, enr, time.Minute, testLogger())

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if enr.calls != 1 {
		t.Fatalf("enricher called %d times; want 1", enr.calls)
	}
	if len(repo.saved) != 1 || repo.saved[0].Conditions == nil {
		t.Fatal("saved record is missing enrichment")
	}
}

func TestRunOnceSkipsEnrichmentWithoutPosition(t *testing.T) {
	rec := Record{Temperature: f(20.0), Humidity: f(50.0), Pressure: f(1010.0)}
	enr := &fakeEnricher{cond: &Conditions{}}
	svc := NewService(&fakeSource{rec: &rec}, &fakeRepo{}, enr, time.Minute, testLogger())

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if enr.calls != 0 {
		t.Fatalf("enricher called %d times without a position; want 0", enr.calls)
	}
}

func TestRunOnceEnrichmentFailureDegrades(t *testing.T) {
	rec := baseRecord()
	repo := &fakeRepo{}
	enr := &fakeEnricher{err: errors.New("quota exceeded")}
	svc := NewService(&fakeSource{rec: &rec}, repo, enr, time.Minute, testLogger())

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d records; want 1 raw record despite enrichment failure", len(repo.saved))
	}
	if repo.saved[0].Conditions != nil {
		t.Fatal("failed enrichment still attached conditions")
	}
}
