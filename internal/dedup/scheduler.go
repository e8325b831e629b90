package dedup

import (
	"sort"
	"sync"
)

// DefaultWorkers is the hashing pool size when none is configured.
const DefaultWorkers = 4

// HashFunc computes a grouping key for one record. The key is
// content-derived (fingerprint or digest), never arrival-derived.
type HashFunc func(FileRecord) (string, error)

// HashingScheduler is the bounded concurrency substrate shared by the
// quick and full hashing stages. At most `workers` hash computations
// are in flight at once. Results are grouped by key, not by
// completion order, and each group is sorted by discovery index, so
// the outcome is identical regardless of worker count or scheduling.
type HashingScheduler struct {
	workers int
}

// NewHashingScheduler creates a scheduler with the given pool size.
func NewHashingScheduler(workers int) (*HashingScheduler, error) {
	if workers < 1 {
		return nil, &ConfigError{Field: "workers", Msg: "must be at least 1"}
	}
	return &HashingScheduler{workers: workers}, nil
}

// Workers returns the configured pool size.
func (s *HashingScheduler) Workers() int { return s.workers }

type hashResult struct {
	rec FileRecord
	key string
	err error
}

// Run hashes every record with hashFn and returns the records grouped
// by key. A record whose hash fails is captured as a HashError for
// the given stage and excluded from the result; sibling work is not
// aborted. Workers share no mutable state; results flow through a
// channel and are collected on the caller's goroutine.
func (s *HashingScheduler) Run(records []FileRecord, stage string, hashFn HashFunc) (map[string][]FileRecord, []HashError) {
	if len(records) == 0 {
		return map[string][]FileRecord{}, nil
	}

	workers := s.workers
	if workers > len(records) {
		workers = len(records)
	}

	jobs := make(chan FileRecord)
	results := make(chan hashResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				key, err := hashFn(rec)
				results <- hashResult{rec: rec, key: key, err: err}
			}
		}()
	}

	go func() {
		for _, rec := range records {
			jobs <- rec
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	byKey := make(map[string][]FileRecord)
	var failures []HashError
	for res := range results {
		if res.err != nil {
			failures = append(failures, HashError{Path: res.rec.Path, Stage: stage, Err: res.err})
			continue
		}
		byKey[res.key] = append(byKey[res.key], res.rec)
	}

	// Completion order depends on scheduling; discovery order does not.
	for _, group := range byKey {
		sort.Slice(group, func(i, j int) bool { return group[i].Index < group[j].Index })
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })

	return byKey, failures
}
