package dedup_test

import (
	"errors"
	"testing"

	"dedup-go/internal/dedup"
	"dedup-go/internal/quarantine"
	"dedup-go/internal/testutil"
)

// tripleGroup builds one group of three identical files with modtimes
// 2026-03-02, 2026-03-03, 2026-03-01 at indices 0, 1, 2.
func tripleGroup() dedup.DuplicateGroup {
	return dedup.DuplicateGroup{
		Digest: "abc",
		Size:   4,
		Files: []dedup.FileRecord{
			{Path: "/d/a", Size: 4, ModTime: testTime(2), Index: 0},
			{Path: "/d/b", Size: 4, ModTime: testTime(3), Index: 1},
			{Path: "/d/c", Size: 4, ModTime: testTime(1), Index: 2},
		},
		WastedSpace: 8,
	}
}

func actionFS(group dedup.DuplicateGroup) *testutil.MockFilesystem {
	fsys := testutil.NewMockFilesystem()
	for _, rec := range group.Files {
		fsys.AddFile(rec.Path, []byte("data"), rec.ModTime)
	}
	return fsys
}

func TestSelectKeeper(t *testing.T) {
	group := tripleGroup()

	tests := []struct {
		name string
		keep dedup.KeepStrategy
		want string
	}{
		{"oldest keeps earliest modtime", dedup.KeepOldest, "/d/c"},
		{"newest keeps latest modtime", dedup.KeepNewest, "/d/b"},
		{"first keeps lowest index", dedup.KeepFirst, "/d/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keeper, err := dedup.SelectKeeper(group, tt.keep)
			if err != nil {
				t.Fatalf("SelectKeeper() error = %v", err)
			}
			if keeper.Path != tt.want {
				t.Errorf("keeper = %s, want %s", keeper.Path, tt.want)
			}
		})
	}

	t.Run("modtime ties resolve to lower index", func(t *testing.T) {
		tied := dedup.DuplicateGroup{
			Digest: "tie",
			Size:   4,
			Files: []dedup.FileRecord{
				{Path: "/d/y", ModTime: testTime(5), Index: 4},
				{Path: "/d/x", ModTime: testTime(5), Index: 1},
			},
		}
		for _, keep := range []dedup.KeepStrategy{dedup.KeepOldest, dedup.KeepNewest} {
			keeper, err := dedup.SelectKeeper(tied, keep)
			if err != nil {
				t.Fatalf("SelectKeeper(%s) error = %v", keep, err)
			}
			if keeper.Path != "/d/x" {
				t.Errorf("%s tie: keeper = %s, want /d/x", keep, keeper.Path)
			}
		}
	})

	t.Run("empty group is an error", func(t *testing.T) {
		if _, err := dedup.SelectKeeper(dedup.DuplicateGroup{Digest: "e"}, dedup.KeepOldest); err == nil {
			t.Error("expected error for empty group")
		}
	})

	t.Run("unknown strategy is an error", func(t *testing.T) {
		if _, err := dedup.SelectKeeper(group, "random"); err == nil {
			t.Error("expected error for unknown strategy")
		}
	})
}

func TestActionExecutor_Execute(t *testing.T) {
	t.Run("delete removes all but the keeper", func(t *testing.T) {
		group := tripleGroup()
		fsys := actionFS(group)
		executor := dedup.NewActionExecutor(fsys, nil, nil, nil)

		results, err := executor.Execute([]dedup.DuplicateGroup{group}, dedup.ActionOptions{
			Keep: dedup.KeepOldest,
			Mode: dedup.ActionDelete,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if len(results) != 1 {
			t.Fatalf("got %d results, want 1", len(results))
		}
		res := results[0]
		if res.State != dedup.GroupResolved {
			t.Errorf("state = %s, want resolved", res.State)
		}
		if res.Kept.Path != "/d/c" {
			t.Errorf("kept = %s, want /d/c", res.Kept.Path)
		}
		if len(fsys.Removed) != 2 {
			t.Fatalf("removed %d files, want 2", len(fsys.Removed))
		}
		if _, ok := fsys.Files["/d/c"]; !ok {
			t.Error("keeper was removed")
		}
		for _, out := range res.Outcomes {
			if !out.OK || out.DryRun {
				t.Errorf("outcome %+v, want OK non-dry-run", out)
			}
		}
	})

	t.Run("dry run mutates nothing", func(t *testing.T) {
		group := tripleGroup()
		fsys := actionFS(group)
		executor := dedup.NewActionExecutor(fsys, nil, nil, nil)

		results, err := executor.Execute([]dedup.DuplicateGroup{group}, dedup.ActionOptions{
			Keep:   dedup.KeepOldest,
			Mode:   dedup.ActionDelete,
			DryRun: true,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if len(fsys.Removed) != 0 {
			t.Errorf("dry run removed %d files", len(fsys.Removed))
		}
		if len(fsys.Files) != 3 {
			t.Errorf("dry run left %d files, want 3", len(fsys.Files))
		}
		for _, out := range results[0].Outcomes {
			if !out.DryRun || !out.OK {
				t.Errorf("outcome %+v, want dry-run OK", out)
			}
		}
	})

	t.Run("dry run with interactive never prompts", func(t *testing.T) {
		group := tripleGroup()
		fsys := actionFS(group)
		prompter := &testutil.ScriptedPrompter{}
		executor := dedup.NewActionExecutor(fsys, nil, prompter, nil)

		_, err := executor.Execute([]dedup.DuplicateGroup{group}, dedup.ActionOptions{
			Keep:        dedup.KeepOldest,
			Mode:        dedup.ActionDelete,
			DryRun:      true,
			Interactive: true,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(prompter.Asked) != 0 {
			t.Errorf("dry run prompted for %v", prompter.Asked)
		}
	})

	t.Run("move stores candidates in quarantine", func(t *testing.T) {
		group := tripleGroup()
		fsys := actionFS(group)
		q := quarantine.NewMemory("/quarantine")
		executor := dedup.NewActionExecutor(fsys, q, nil, nil)

		results, err := executor.Execute([]dedup.DuplicateGroup{group}, dedup.ActionOptions{
			Keep: dedup.KeepFirst,
			Mode: dedup.ActionMove,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		moves := q.Moves()
		if len(moves) != 2 {
			t.Fatalf("got %d moves, want 2", len(moves))
		}
		for _, out := range results[0].Outcomes {
			if out.Dest == "" {
				t.Errorf("outcome for %s missing destination", out.Path)
			}
		}
	})

	t.Run("failure is recorded and does not stop the group", func(t *testing.T) {
		group := tripleGroup()
		fsys := actionFS(group)
		fsys.RemoveErrors["/d/a"] = errors.New("busy")
		executor := dedup.NewActionExecutor(fsys, nil, nil, nil)

		results, err := executor.Execute([]dedup.DuplicateGroup{group}, dedup.ActionOptions{
			Keep: dedup.KeepOldest,
			Mode: dedup.ActionDelete,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		res := results[0]
		var failed, ok int
		for _, out := range res.Outcomes {
			if out.OK {
				ok++
			} else {
				failed++
				if out.Reason == "" {
					t.Error("failed outcome has no reason")
				}
			}
		}
		if failed != 1 || ok != 1 {
			t.Errorf("failed=%d ok=%d, want 1 and 1", failed, ok)
		}
		if res.State != dedup.GroupResolved {
			t.Errorf("state = %s, want resolved", res.State)
		}
	})

	t.Run("interactive skip declines a single candidate", func(t *testing.T) {
		group := tripleGroup()
		fsys := actionFS(group)
		prompter := &testutil.ScriptedPrompter{Script: []dedup.Decision{dedup.Skip, dedup.Proceed}}
		executor := dedup.NewActionExecutor(fsys, nil, prompter, nil)

		results, err := executor.Execute([]dedup.DuplicateGroup{group}, dedup.ActionOptions{
			Keep:        dedup.KeepOldest,
			Mode:        dedup.ActionDelete,
			Interactive: true,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if len(fsys.Removed) != 1 {
			t.Errorf("removed %d files, want 1", len(fsys.Removed))
		}
		res := results[0]
		var declined int
		for _, out := range res.Outcomes {
			if out.Reason == "declined" {
				declined++
			}
		}
		if declined != 1 {
			t.Errorf("declined = %d, want 1", declined)
		}
	})

	t.Run("abort skips the rest of the run", func(t *testing.T) {
		first := tripleGroup()
		second := dedup.DuplicateGroup{
			Digest: "def",
			Size:   4,
			Files: []dedup.FileRecord{
				{Path: "/d/e", Size: 4, ModTime: testTime(4), Index: 3},
				{Path: "/d/f", Size: 4, ModTime: testTime(5), Index: 4},
			},
		}
		fsys := actionFS(first)
		for _, rec := range second.Files {
			fsys.AddFile(rec.Path, []byte("data"), rec.ModTime)
		}

		prompter := &testutil.ScriptedPrompter{Script: []dedup.Decision{dedup.Abort}}
		executor := dedup.NewActionExecutor(fsys, nil, prompter, nil)

		results, err := executor.Execute([]dedup.DuplicateGroup{first, second}, dedup.ActionOptions{
			Keep:        dedup.KeepOldest,
			Mode:        dedup.ActionDelete,
			Interactive: true,
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		if len(fsys.Removed) != 0 {
			t.Errorf("removed %d files after abort, want 0", len(fsys.Removed))
		}
		if results[0].State != dedup.GroupSkipped {
			t.Errorf("aborted group state = %s, want skipped", results[0].State)
		}
		if results[1].State != dedup.GroupPending {
			t.Errorf("remaining group state = %s, want pending", results[1].State)
		}
	})

	t.Run("validation", func(t *testing.T) {
		group := tripleGroup()
		fsys := actionFS(group)

		tests := []struct {
			name     string
			executor *dedup.ActionExecutor
			opts     dedup.ActionOptions
		}{
			{
				"move without quarantine",
				dedup.NewActionExecutor(fsys, nil, nil, nil),
				dedup.ActionOptions{Keep: dedup.KeepOldest, Mode: dedup.ActionMove},
			},
			{
				"interactive without prompter",
				dedup.NewActionExecutor(fsys, nil, nil, nil),
				dedup.ActionOptions{Keep: dedup.KeepOldest, Mode: dedup.ActionDelete, Interactive: true},
			},
			{
				"no action mode",
				dedup.NewActionExecutor(fsys, nil, nil, nil),
				dedup.ActionOptions{Keep: dedup.KeepOldest, Mode: dedup.ActionNone},
			},
			{
				"unknown keep strategy",
				dedup.NewActionExecutor(fsys, nil, nil, nil),
				dedup.ActionOptions{Keep: "whatever", Mode: dedup.ActionDelete},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := tt.executor.Execute([]dedup.DuplicateGroup{group}, tt.opts); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})
}

func TestParseKeepStrategy(t *testing.T) {
	for _, raw := range []string{"oldest", "newest", "first"} {
		if _, err := dedup.ParseKeepStrategy(raw); err != nil {
			t.Errorf("ParseKeepStrategy(%q) error = %v", raw, err)
		}
	}
	if _, err := dedup.ParseKeepStrategy("largest"); err == nil {
		t.Error("expected error for unknown strategy")
	}

	var cfgErr *dedup.ConfigError
	_, err := dedup.ParseKeepStrategy("")
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %T", err)
	}
}
