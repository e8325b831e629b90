package dedup_test

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"dedup-go/internal/dedup"
)

func TestNewHashingScheduler(t *testing.T) {
	if _, err := dedup.NewHashingScheduler(0); err == nil {
		t.Error("expected error for zero workers")
	}
	if _, err := dedup.NewHashingScheduler(-3); err == nil {
		t.Error("expected error for negative workers")
	}

	s, err := dedup.NewHashingScheduler(8)
	if err != nil {
		t.Fatalf("NewHashingScheduler(8) error = %v", err)
	}
	if s.Workers() != 8 {
		t.Errorf("Workers() = %d, want 8", s.Workers())
	}
}

func schedulerRecords(n int) []dedup.FileRecord {
	records := make([]dedup.FileRecord, n)
	for i := range records {
		records[i] = dedup.FileRecord{
			Path:  fmt.Sprintf("/f%03d", i),
			Size:  int64(i % 5),
			Index: i,
		}
	}
	return records
}

func bySize(rec dedup.FileRecord) (string, error) {
	return strconv.FormatInt(rec.Size, 10), nil
}

func TestHashingScheduler_Run(t *testing.T) {
	t.Run("groups by key sorted by discovery index", func(t *testing.T) {
		s, _ := dedup.NewHashingScheduler(4)
		records := schedulerRecords(50)

		byKey, failures := s.Run(records, "quick", bySize)
		if len(failures) != 0 {
			t.Fatalf("unexpected failures: %v", failures)
		}
		if len(byKey) != 5 {
			t.Fatalf("got %d groups, want 5", len(byKey))
		}
		for key, group := range byKey {
			for i := 1; i < len(group); i++ {
				if group[i-1].Index >= group[i].Index {
					t.Errorf("group %s not sorted by index at position %d", key, i)
				}
			}
		}
	})

	t.Run("result is invariant across worker counts", func(t *testing.T) {
		records := schedulerRecords(200)

		s1, _ := dedup.NewHashingScheduler(1)
		s8, _ := dedup.NewHashingScheduler(8)

		got1, _ := s1.Run(records, "quick", bySize)
		got8, _ := s8.Run(records, "quick", bySize)

		if !reflect.DeepEqual(got1, got8) {
			t.Error("grouping differs between 1 and 8 workers")
		}
	})

	t.Run("failures are captured and excluded", func(t *testing.T) {
		s, _ := dedup.NewHashingScheduler(4)
		records := schedulerRecords(10)

		byKey, failures := s.Run(records, "full", func(rec dedup.FileRecord) (string, error) {
			if rec.Index%3 == 0 {
				return "", errors.New("read error")
			}
			return bySize(rec)
		})

		if len(failures) != 4 {
			t.Fatalf("got %d failures, want 4", len(failures))
		}
		for i := 1; i < len(failures); i++ {
			if failures[i-1].Path >= failures[i].Path {
				t.Error("failures not sorted by path")
			}
		}
		for _, f := range failures {
			if f.Stage != "full" {
				t.Errorf("failure stage = %s, want full", f.Stage)
			}
		}

		total := 0
		for _, group := range byKey {
			for _, rec := range group {
				if rec.Index%3 == 0 {
					t.Errorf("failed record %s present in results", rec.Path)
				}
				total++
			}
		}
		if total != 6 {
			t.Errorf("got %d grouped records, want 6", total)
		}
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		s, _ := dedup.NewHashingScheduler(4)
		byKey, failures := s.Run(nil, "quick", bySize)
		if len(byKey) != 0 || len(failures) != 0 {
			t.Errorf("got %d groups and %d failures, want none", len(byKey), len(failures))
		}
	})

	t.Run("more workers than records", func(t *testing.T) {
		s, _ := dedup.NewHashingScheduler(64)
		byKey, _ := s.Run(schedulerRecords(3), "quick", bySize)
		total := 0
		for _, group := range byKey {
			total += len(group)
		}
		if total != 3 {
			t.Errorf("got %d records back, want 3", total)
		}
	})
}
