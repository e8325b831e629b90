package dedup

import (
	"fmt"
	"strconv"
)

// Scanner runs the detection pipeline: catalog walk, size grouping,
// quick-hash filtering, full-hash confirmation, group building. The
// stages run strictly in sequence; only hashing fans out across the
// scheduler's worker pool. Scanner performs no filesystem mutation.
type Scanner struct {
	fsys      Filesystem
	scheduler *HashingScheduler
	logger    Logger
	clock     Clock
}

// NewScanner creates a scanner over the given filesystem.
func NewScanner(fsys Filesystem, scheduler *HashingScheduler, logger Logger, clock Clock) *Scanner {
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Scanner{fsys: fsys, scheduler: scheduler, logger: logger, clock: clock}
}

// ScanResult is the fully materialized, immutable outcome of one
// scan, handed to the report/export and action layers.
type ScanResult struct {
	Root   string
	Groups []DuplicateGroup
	Stats  StatsSnapshot
	Errors ScanErrors
}

// Scan walks root with the given filter and returns the confirmed
// duplicate groups. Traversal and hashing failures are collected in
// the result and never abort the scan; the returned error is non-nil
// only for an invalid filter or an unenumerable root.
func (s *Scanner) Scan(root string, filter ScanFilter) (*ScanResult, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	start := s.clock.Now()
	stats := &ScanStatistics{}
	result := &ScanResult{Root: root}

	// Phase 1: catalog walk and size grouping.
	catalog := NewFileCatalog(s.fsys, root, filter, s.logger)
	var records []FileRecord
	soft, err := catalog.Walk(func(rec FileRecord) {
		stats.addScanned(rec.Size)
		records = append(records, rec)
	})
	result.Errors.Traversal = soft
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", root, err)
	}

	bySize := SizeGroups(records)
	s.logger.Info("catalog complete",
		"files", len(records), "candidate_size_groups", len(bySize))

	// Phase 2: quick fingerprint over all size-group members. The
	// key prefixes the size so equal samples of different sizes can
	// never merge.
	var candidates []FileRecord
	for _, group := range bySize {
		candidates = append(candidates, group...)
	}
	byFingerprint, quickFailures := s.scheduler.Run(candidates, "quick", func(rec FileRecord) (string, error) {
		fp, err := QuickFingerprint(s.fsys, rec)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(rec.Size, 10) + ":" + fp, nil
	})
	result.Errors.Hash = append(result.Errors.Hash, quickFailures...)

	// Phase 3: full digest, only for members sharing a fingerprint.
	// This stage is authoritative and is never skipped: a quick-hash
	// match alone never reaches the report.
	var toConfirm []FileRecord
	for _, group := range byFingerprint {
		if len(group) >= 2 {
			toConfirm = append(toConfirm, group...)
		}
	}
	s.logger.Info("quick filter complete", "files_to_confirm", len(toConfirm))

	byDigest, fullFailures := s.scheduler.Run(toConfirm, "full", func(rec FileRecord) (string, error) {
		digest, err := ContentDigest(s.fsys, rec)
		if err != nil {
			return "", err
		}
		stats.addHashed()
		return digest, nil
	})
	result.Errors.Hash = append(result.Errors.Hash, fullFailures...)

	// Phase 4: assemble and order groups.
	result.Groups = BuildGroups(byDigest)
	for _, g := range result.Groups {
		stats.addDuplicates(len(g.Files)-1, g.WastedSpace)
	}

	stats.setElapsed(s.clock.Now().Sub(start))
	result.Stats = stats.Snapshot()

	s.logger.Info("scan complete",
		"groups", len(result.Groups),
		"wasted_space", result.Stats.WastedSpace,
		"soft_errors", result.Errors.Total())
	return result, nil
}
