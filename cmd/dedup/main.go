package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"dedup-go/internal/app"
	"dedup-go/internal/config"
	"dedup-go/internal/dedup"
	"dedup-go/internal/prompt"
	"dedup-go/internal/report"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a DedupApp. The caller must
// defer a.Close(). A missing config file is not an error: defaults
// apply until `dedup config init` is run.
func newApp(workers int) (*app.DedupApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		cfg = config.NewConfig(defaults["base_dir"])
	}

	a, err := app.NewDedupApp(cfg, workers)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Duplicate file finder",
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan PATH",
	Short: "Scan a directory tree for duplicate files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		noRecursive, _ := flags.GetBool("no-recursive")
		minSize, _ := flags.GetInt64("min-size")
		maxSize, _ := flags.GetInt64("max-size")
		extensions, _ := flags.GetStringSlice("ext")
		excludes, _ := flags.GetStringSlice("exclude")
		workers, _ := flags.GetInt("workers")
		jsonFile, _ := flags.GetString("json")
		csvFile, _ := flags.GetString("csv")
		verbose, _ := flags.GetBool("verbose")
		doDelete, _ := flags.GetBool("delete")
		moveDir, _ := flags.GetString("move")
		keepFlag, _ := flags.GetString("keep")
		dryRun, _ := flags.GetBool("dry-run")
		interactive, _ := flags.GetBool("interactive")

		if doDelete && moveDir != "" {
			return &dedup.ConfigError{Field: "action", Msg: "--delete and --move are mutually exclusive"}
		}

		a, err := newApp(workers)
		if err != nil {
			return err
		}
		defer a.Close()

		// Flags override config; exclusions accumulate on top of the
		// configured set.
		if !flags.Changed("min-size") {
			minSize = a.Config.Scan.MinSize
		}
		excludeDirs := append([]string{}, a.Config.Scan.ExcludeDirs...)
		excludeDirs = append(excludeDirs, excludes...)

		filter := dedup.ScanFilter{
			Recursive:   !noRecursive,
			MinSize:     minSize,
			MaxSize:     maxSize,
			Extensions:  extensions,
			ExcludeDirs: excludeDirs,
		}

		result, err := a.Scan(args[0], filter)
		if err != nil {
			return err
		}

		report.WriteText(os.Stdout, result, verbose)

		if jsonFile != "" {
			err := writeExport(jsonFile, func(f *os.File) error {
				return report.WriteJSON(f, result, time.Now())
			})
			if err != nil {
				return err
			}
			fmt.Printf("\nJSON report written to %s\n", jsonFile)
		}
		if csvFile != "" {
			err := writeExport(csvFile, func(f *os.File) error {
				return report.WriteCSV(f, result.Groups)
			})
			if err != nil {
				return err
			}
			fmt.Printf("\nCSV report written to %s\n", csvFile)
		}

		if !doDelete && moveDir == "" && !flags.Changed("move") {
			return nil
		}
		if len(result.Groups) == 0 {
			return nil
		}

		mode := dedup.ActionMove
		if doDelete {
			mode = dedup.ActionDelete
		}
		keep, err := dedup.ParseKeepStrategy(keepFlag)
		if err != nil {
			return err
		}
		opts := dedup.ActionOptions{
			Keep:        keep,
			Mode:        mode,
			DryRun:      dryRun,
			Interactive: interactive,
		}

		stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))

		var prompter dedup.Prompter
		if interactive && !dryRun {
			if !stdinTTY {
				return &dedup.ConfigError{Field: "interactive", Msg: "requires a terminal; use --dry-run to preview"}
			}
			prompter = prompt.NewReaderPrompter(os.Stdin, os.Stderr)
		}

		// Non-interactive deletion gets one explicit gate before
		// anything is removed.
		if mode == dedup.ActionDelete && !dryRun && !interactive {
			if !stdinTTY {
				return fmt.Errorf("refusing to delete without confirmation; rerun with --interactive or --dry-run")
			}
			question := fmt.Sprintf("About to delete %d duplicate file(s).", result.Stats.DuplicatesFound)
			if !prompt.ConfirmPhrase(os.Stdin, os.Stderr, question, "yes") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		results, err := a.ExecuteActions(result, opts, moveDir, prompter)
		if err != nil {
			return err
		}

		fmt.Println()
		report.WriteOutcomes(os.Stdout, results)
		return nil
	},
}

// writeExport creates the file and hands it to the writer, keeping
// the first error of write and close.
func writeExport(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	writeErr := write(f)
	closeErr := f.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Workers:        %d\n", cfg.Scan.Workers)
		fmt.Printf("Min Size:       %d\n", cfg.Scan.MinSize)
		fmt.Printf("Exclude Dirs:   %v\n", cfg.Scan.ExcludeDirs)
		fmt.Printf("History:        %s (%s)\n", cfg.History.Type, cfg.History.DataDir)
		fmt.Printf("Quarantine Dir: %s\n", cfg.Quarantine.Dir)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history [SCAN_ID]",
	Short: "View scan history, or the action log of one scan",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(0)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			return printActions(a, args[0])
		}

		scans, err := a.History(limit)
		if err != nil {
			return err
		}
		if len(scans) == 0 {
			fmt.Println("No scans recorded.")
			return nil
		}

		for _, s := range scans {
			duration := ""
			if s.FinishedAt.Valid {
				d := s.FinishedAt.Time.Sub(s.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %s  %-8s  %d files  %d groups  %s wasted  %s\n",
				s.ID[:8],
				s.StartedAt.Format("2006-01-02 15:04:05"),
				s.Status,
				s.FilesScanned,
				s.GroupsFound,
				report.HumanSize(s.WastedSpace),
				duration,
			)
		}
		return nil
	},
}

func printActions(a *app.DedupApp, scanID string) error {
	actions, err := a.Actions(scanID)
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		fmt.Println("No actions recorded for this scan.")
		return nil
	}

	for _, act := range actions {
		status := "ok"
		if !act.OK {
			status = "failed: " + act.Reason
		} else if act.DryRun {
			status = "dry-run"
		}
		dest := ""
		if act.Dest != "" {
			dest = " -> " + act.Dest
		}
		fmt.Printf("%s  %-6s  %s%s  [%s]\n",
			act.CreatedAt.Format("2006-01-02 15:04:05"),
			act.Action,
			act.Path,
			dest,
			status,
		)
	}
	return nil
}

func init() {
	scanCmd.Flags().Bool("no-recursive", false, "Do not descend into subdirectories")
	scanCmd.Flags().Int64("min-size", 1, "Ignore files smaller than this many bytes")
	scanCmd.Flags().Int64("max-size", 0, "Ignore files larger than this many bytes (0 = unlimited)")
	scanCmd.Flags().StringSlice("ext", nil, "Only consider these extensions (e.g. jpg,png)")
	scanCmd.Flags().StringSlice("exclude", nil, "Additional directory names to skip")
	scanCmd.Flags().IntP("workers", "w", 0, "Hashing worker count (0 = configured default)")
	scanCmd.Flags().String("json", "", "Export the report as JSON to FILE")
	scanCmd.Flags().String("csv", "", "Export the report as CSV to FILE")
	scanCmd.Flags().BoolP("verbose", "v", false, "List every file in every group")
	scanCmd.Flags().Bool("delete", false, "Delete all but one file per duplicate group")
	scanCmd.Flags().String("move", "", "Move duplicates into DIR instead of deleting")
	scanCmd.Flags().String("keep", "oldest", "Which copy to keep: oldest, newest or first")
	scanCmd.Flags().Bool("dry-run", false, "Report actions without touching anything")
	scanCmd.Flags().BoolP("interactive", "i", false, "Confirm each file before acting")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of scans to show")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}
