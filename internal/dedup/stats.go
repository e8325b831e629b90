package dedup

import (
	"sync"
	"time"
)

// ScanStatistics is the shared counter set updated by the pipeline
// stages, including concurrent hash workers. It is scoped to a single
// scan; there is no process-wide state. All increments are
// synchronized, and readers take a Snapshot once the scan is done.
type ScanStatistics struct {
	mu              sync.Mutex
	filesScanned    int64
	filesHashed     int64
	bytesScanned    int64
	duplicatesFound int64
	wastedSpace     int64
	elapsed         time.Duration
}

// StatsSnapshot is an immutable copy of the counters.
type StatsSnapshot struct {
	FilesScanned    int64
	FilesHashed     int64
	BytesScanned    int64
	DuplicatesFound int64
	WastedSpace     int64
	Elapsed         time.Duration
}

func (s *ScanStatistics) addScanned(size int64) {
	s.mu.Lock()
	s.filesScanned++
	s.bytesScanned += size
	s.mu.Unlock()
}

func (s *ScanStatistics) addHashed() {
	s.mu.Lock()
	s.filesHashed++
	s.mu.Unlock()
}

func (s *ScanStatistics) addDuplicates(count int, wasted int64) {
	s.mu.Lock()
	s.duplicatesFound += int64(count)
	s.wastedSpace += wasted
	s.mu.Unlock()
}

func (s *ScanStatistics) setElapsed(d time.Duration) {
	s.mu.Lock()
	s.elapsed = d
	s.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (s *ScanStatistics) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		FilesScanned:    s.filesScanned,
		FilesHashed:     s.filesHashed,
		BytesScanned:    s.bytesScanned,
		DuplicatesFound: s.duplicatesFound,
		WastedSpace:     s.wastedSpace,
		Elapsed:         s.elapsed,
	}
}
