package app

import (
	"fmt"
	"os"

	"dedup-go/internal/config"
	"dedup-go/internal/dedup"
	"dedup-go/internal/fs"
	"dedup-go/internal/history"
	"dedup-go/internal/quarantine"
)

// DedupApp wires config, filesystem, scanner, history store and
// action executor behind one facade for the CLI. Every run gets a
// fresh scan ID that tags log lines and history rows.
type DedupApp struct {
	Config *config.Config
	Fsys   *fs.OSFilesystem
	Logger dedup.Logger

	scanID  string
	scanner *dedup.Scanner
	store   history.Store
	clock   dedup.Clock
	logFile *os.File
}

// NewDedupApp constructs a fully wired application. workers == 0
// falls back to the configured worker count. A history store that
// cannot be opened degrades to in-memory with a warning; history is
// never allowed to fail a scan.
func NewDedupApp(cfg *config.Config, workers int) (*DedupApp, error) {
	return newDedupApp(cfg, workers, dedup.UUIDGenerator{}, dedup.RealClock{})
}

func newDedupApp(cfg *config.Config, workers int, ids dedup.IDGenerator, clock dedup.Clock) (*DedupApp, error) {
	scanID := ids.New()

	slogger, logFile, err := newLogger(cfg.LogDir, scanID)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	if workers == 0 {
		workers = cfg.Scan.Workers
	}
	scheduler, err := dedup.NewHashingScheduler(workers)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	store, err := history.NewStoreFromConfig(cfg.History)
	if err != nil {
		logger.Warn("history store unavailable, using in-memory", "error", err)
		store = history.NewMemoryStore()
	}

	fsys := fs.NewOSFilesystem()

	return &DedupApp{
		Config:  cfg,
		Fsys:    fsys,
		Logger:  logger,
		scanID:  scanID,
		scanner: dedup.NewScanner(fsys, scheduler, logger, clock),
		store:   store,
		clock:   clock,
		logFile: logFile,
	}, nil
}

// ScanID returns the identifier assigned to this run.
func (a *DedupApp) ScanID() string { return a.scanID }

// Scan resolves the raw root path, runs the detection pipeline and
// records the scan in history. Only an invalid root or filter fails
// the call; history errors are logged and swallowed.
func (a *DedupApp) Scan(rawRoot string, filter dedup.ScanFilter) (*dedup.ScanResult, error) {
	root, err := a.Fsys.ResolveRoot(rawRoot)
	if err != nil {
		return nil, &dedup.ConfigError{Field: "path", Msg: err.Error()}
	}

	rec := &history.ScanRecord{
		ID:        a.scanID,
		Root:      root,
		StartedAt: a.clock.Now(),
		Status:    "running",
	}
	if err := a.store.StartScan(rec); err != nil {
		a.Logger.Warn("recording scan start failed", "error", err)
	}

	result, err := a.scanner.Scan(root, filter)
	if err != nil {
		rec.Status = "error"
		a.finishScan(rec)
		return nil, err
	}

	rec.Status = "success"
	rec.FilesScanned = result.Stats.FilesScanned
	rec.FilesHashed = result.Stats.FilesHashed
	rec.BytesScanned = result.Stats.BytesScanned
	rec.GroupsFound = int64(len(result.Groups))
	rec.WastedSpace = result.Stats.WastedSpace
	a.finishScan(rec)

	return result, nil
}

func (a *DedupApp) finishScan(rec *history.ScanRecord) {
	rec.FinishedAt.Time = a.clock.Now()
	rec.FinishedAt.Valid = true
	if err := a.store.FinishScan(rec); err != nil {
		a.Logger.Warn("recording scan finish failed", "error", err)
	}
}

// ExecuteActions applies the keep strategy and performs the requested
// action on every confirmed duplicate group, then appends the
// per-file outcomes to the audit log. moveDir overrides the
// configured quarantine folder when non-empty.
func (a *DedupApp) ExecuteActions(result *dedup.ScanResult, opts dedup.ActionOptions, moveDir string, prompter dedup.Prompter) ([]dedup.GroupResult, error) {
	var q dedup.Quarantine
	if opts.Mode == dedup.ActionMove {
		dir := moveDir
		if dir == "" {
			dir = a.Config.Quarantine.Dir
		}
		q = quarantine.NewDirectory(a.Fsys, dir)
	}

	executor := dedup.NewActionExecutor(a.Fsys, q, prompter, a.Logger)
	results, err := executor.Execute(result.Groups, opts)
	if err != nil {
		return nil, err
	}

	a.recordOutcomes(results)
	return results, nil
}

// recordOutcomes persists the action audit rows, best effort.
func (a *DedupApp) recordOutcomes(results []dedup.GroupResult) {
	var recs []history.ActionRecord
	now := a.clock.Now()
	for _, res := range results {
		for _, out := range res.Outcomes {
			recs = append(recs, history.ActionRecord{
				ScanID:    a.scanID,
				Path:      out.Path,
				Action:    string(out.Action),
				OK:        out.OK,
				DryRun:    out.DryRun,
				Dest:      out.Dest,
				Reason:    out.Reason,
				CreatedAt: now,
			})
		}
	}
	if len(recs) == 0 {
		return
	}
	if err := a.store.RecordActions(a.scanID, recs); err != nil {
		a.Logger.Warn("recording action outcomes failed", "error", err)
	}
}

// History returns the most recent scans, newest first.
func (a *DedupApp) History(limit int) ([]*history.ScanRecord, error) {
	return a.store.ListScans(limit)
}

// Actions returns the audit rows of one scan.
func (a *DedupApp) Actions(scanID string) ([]*history.ActionRecord, error) {
	return a.store.ListActions(scanID)
}

// Close releases the history store and the log file.
func (a *DedupApp) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = err
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
