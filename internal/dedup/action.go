package dedup

import "fmt"

// Decision is a prompter's answer for one candidate file.
type Decision int

const (
	// Proceed performs the action on the candidate.
	Proceed Decision = iota
	// Skip declines the action for this candidate only.
	Skip
	// Abort stops acting for the rest of the run.
	Abort
)

// Prompter is the confirmation capability the executor depends on in
// interactive mode. Implementations may be TTY-backed or scripted;
// the executor's logic does not change. Abstention (EOF, unreadable
// input) must resolve to Skip; declining is the safe default.
type Prompter interface {
	Confirm(path string) Decision
}

// Quarantine is the destination for moved duplicates. Store
// relocates the file and returns where it ended up, disambiguating
// filename collisions and creating the destination if absent.
type Quarantine interface {
	Store(path string) (string, error)
}

// GroupState is the action state machine per duplicate group.
type GroupState string

const (
	// GroupPending means the group has not been acted on.
	GroupPending GroupState = "pending"
	// GroupResolved means every candidate was attempted.
	GroupResolved GroupState = "resolved"
	// GroupSkipped means every candidate was declined or the run
	// was aborted inside the group.
	GroupSkipped GroupState = "skipped"
)

// ActionOutcome is the audit record for one candidate file.
type ActionOutcome struct {
	Path   string
	Action ActionMode
	OK     bool
	DryRun bool
	Dest   string // destination path for moves
	Reason string // failure or decline reason
}

// GroupResult is the terminal action state of one duplicate group.
type GroupResult struct {
	Group    DuplicateGroup
	State    GroupState
	Kept     FileRecord
	Outcomes []ActionOutcome
}

// ActionOptions configures one action pass. DryRun and Interactive
// combine freely with the mode; dry-run takes precedence and never
// prompts, matching its promise to touch nothing.
type ActionOptions struct {
	Keep        KeepStrategy
	Mode        ActionMode
	DryRun      bool
	Interactive bool
}

// ActionExecutor applies a keep strategy to duplicate groups and
// performs delete/move on the non-kept members. It is the only
// component that mutates the filesystem, and it runs strictly after
// detection has materialized its result.
type ActionExecutor struct {
	fsys       Filesystem
	quarantine Quarantine
	prompter   Prompter
	logger     Logger
}

// NewActionExecutor creates an executor. quarantine may be nil unless
// move mode is used; prompter may be nil unless interactive mode is.
func NewActionExecutor(fsys Filesystem, quarantine Quarantine, prompter Prompter, logger Logger) *ActionExecutor {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &ActionExecutor{fsys: fsys, quarantine: quarantine, prompter: prompter, logger: logger}
}

// SelectKeeper picks the one record of a group that survives.
func SelectKeeper(group DuplicateGroup, keep KeepStrategy) (FileRecord, error) {
	if len(group.Files) == 0 {
		return FileRecord{}, fmt.Errorf("empty duplicate group %s", group.Digest)
	}
	best := group.Files[0]
	switch keep {
	case KeepOldest:
		for _, rec := range group.Files[1:] {
			if rec.ModTime.Before(best.ModTime) ||
				(rec.ModTime.Equal(best.ModTime) && rec.Index < best.Index) {
				best = rec
			}
		}
	case KeepNewest:
		for _, rec := range group.Files[1:] {
			if rec.ModTime.After(best.ModTime) ||
				(rec.ModTime.Equal(best.ModTime) && rec.Index < best.Index) {
				best = rec
			}
		}
	case KeepFirst:
		for _, rec := range group.Files[1:] {
			if rec.Index < best.Index {
				best = rec
			}
		}
	default:
		return FileRecord{}, &ConfigError{Field: "keep", Msg: fmt.Sprintf("unknown keep strategy %q", keep)}
	}
	return best, nil
}

// Execute acts on every group. Per-candidate failures are recorded in
// the outcomes and never block remaining candidates or groups. An
// Abort decision stops the pass: the current group terminates as
// skipped and the remaining groups are returned as pending.
func (e *ActionExecutor) Execute(groups []DuplicateGroup, opts ActionOptions) ([]GroupResult, error) {
	if err := e.validate(opts); err != nil {
		return nil, err
	}

	results := make([]GroupResult, 0, len(groups))
	aborted := false

	for _, group := range groups {
		if aborted {
			results = append(results, GroupResult{Group: group, State: GroupPending})
			continue
		}

		keeper, err := SelectKeeper(group, opts.Keep)
		if err != nil {
			return nil, err
		}

		res := GroupResult{Group: group, Kept: keeper}
		attempted := 0

		e.logger.Info("resolving group",
			"digest", group.Digest, "keeping", keeper.Path, "candidates", len(group.Files)-1)

		for _, rec := range group.Files {
			if rec.Path == keeper.Path {
				continue
			}
			if opts.Interactive && !opts.DryRun {
				switch e.prompter.Confirm(rec.Path) {
				case Skip:
					res.Outcomes = append(res.Outcomes, ActionOutcome{
						Path: rec.Path, Action: opts.Mode, Reason: "declined",
					})
					continue
				case Abort:
					e.logger.Warn("action pass aborted", "at", rec.Path)
					aborted = true
				}
				if aborted {
					break
				}
			}
			res.Outcomes = append(res.Outcomes, e.actOn(rec, opts))
			attempted++
		}

		switch {
		case aborted:
			res.State = GroupSkipped
		case attempted > 0:
			res.State = GroupResolved
		default:
			res.State = GroupSkipped
		}
		results = append(results, res)
	}

	return results, nil
}

func (e *ActionExecutor) validate(opts ActionOptions) error {
	switch opts.Mode {
	case ActionDelete:
	case ActionMove:
		if e.quarantine == nil {
			return &ConfigError{Field: "move", Msg: "no move destination configured"}
		}
	default:
		return &ConfigError{Field: "action", Msg: fmt.Sprintf("nothing to execute for mode %q", opts.Mode)}
	}
	if _, err := ParseKeepStrategy(string(opts.Keep)); err != nil {
		return err
	}
	if opts.Interactive && !opts.DryRun && e.prompter == nil {
		return &ConfigError{Field: "interactive", Msg: "no prompter available"}
	}
	return nil
}

// actOn performs (or, in dry-run, only reports) the action for one
// candidate. Failures become part of the outcome, not errors.
func (e *ActionExecutor) actOn(rec FileRecord, opts ActionOptions) ActionOutcome {
	outcome := ActionOutcome{Path: rec.Path, Action: opts.Mode, DryRun: opts.DryRun}

	if opts.DryRun {
		outcome.OK = true
		e.logger.Info("dry run", "action", opts.Mode, "path", rec.Path)
		return outcome
	}

	switch opts.Mode {
	case ActionDelete:
		if err := e.fsys.Remove(rec.Path); err != nil {
			outcome.Reason = err.Error()
			e.logger.Error("delete failed", "path", rec.Path, "error", err)
			return outcome
		}
	case ActionMove:
		dest, err := e.quarantine.Store(rec.Path)
		if err != nil {
			outcome.Reason = err.Error()
			e.logger.Error("move failed", "path", rec.Path, "error", err)
			return outcome
		}
		outcome.Dest = dest
	}

	outcome.OK = true
	e.logger.Info("duplicate handled", "action", opts.Mode, "path", rec.Path)
	return outcome
}
