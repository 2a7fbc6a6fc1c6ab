package repository

import (
	"context"
	"errors"
	"testing"

	"StockSight/internal/domain/models"
)

type scriptedSource struct {
	calls   int
	results []models.TimeSeries
	errs    []error
}

func (s *scriptedSource) Read(context.Context) (models.TimeSeries, error) {
	i := s.calls
	s.calls++
	return s.results[i], s.errs[i]
}

func TestSnapshotReadsOnce(t *testing.T) {
	src := &scriptedSource{
		results: []models.TimeSeries{{Labels: []string{"a"}, Values: []float64{1}}},
		errs:    []error{nil},
	}
	snap := NewSnapshotSeries(context.Background(), src, nil)
	for i := 0; i < 3; i++ {
		s, err := snap.Read(context.Background())
		if err != nil || s.Last() != 1 {
			t.Fatalf("unexpected read %v %v", s, err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("source read %d times, want 1", src.calls)
	}
}

func TestSnapshotRefreshKeepsGoodData(t *testing.T) {
	fail := errors.Join(models.ErrDataUnavailable, errors.New("disk gone"))
	src := &scriptedSource{
		results: []models.TimeSeries{
			{Labels: []string{"a"}, Values: []float64{1}},
			models.EmptySeries(),
			{Labels: []string{"a", "b"}, Values: []float64{1, 2}},
		},
		errs: []error{nil, fail, nil},
	}
	snap := NewSnapshotSeries(context.Background(), src, nil)

	snap.Refresh(context.Background())
	if s, err := snap.Read(context.Background()); err != nil || s.Last() != 1 {
		t.Fatalf("failed refresh should keep previous snapshot, got %v %v", s, err)
	}

	snap.Refresh(context.Background())
	if s, _ := snap.Read(context.Background()); s.Len() != 2 || s.Last() != 2 {
		t.Fatalf("refresh not applied: %v", s)
	}
}

func TestSnapshotInitialFailureIsServed(t *testing.T) {
	src := &scriptedSource{
		results: []models.TimeSeries{models.EmptySeries(), {Labels: []string{"a"}, Values: []float64{5}}},
		errs:    []error{models.ErrDataUnavailable, nil},
	}
	snap := NewSnapshotSeries(context.Background(), src, nil)
	if _, err := snap.Read(context.Background()); !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("expected initial error to be served, got %v", err)
	}
	snap.Refresh(context.Background())
	if s, err := snap.Read(context.Background()); err != nil || s.Last() != 5 {
		t.Fatalf("recovery refresh not applied: %v %v", s, err)
	}
}
