package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"dedup-go/internal/dedup"
)

// ReaderPrompter asks for per-file confirmation on an input/output
// stream pair. It satisfies dedup.Prompter; the CLI wires it to
// stdin/stderr when those are a terminal, and tests feed it a
// scripted reader. EOF or unreadable input declines, never acts.
type ReaderPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewReaderPrompter creates a prompter reading answers from in and
// writing questions to out.
func NewReaderPrompter(in io.Reader, out io.Writer) *ReaderPrompter {
	return &ReaderPrompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks about one candidate file. Answers: y/yes proceeds,
// q/quit/abort stops the run, anything else (including EOF) skips.
func (p *ReaderPrompter) Confirm(path string) dedup.Decision {
	fmt.Fprintf(p.out, "  %s? [y/N/q]: ", path)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return dedup.Skip
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return dedup.Proceed
	case "a", "q", "quit", "abort":
		return dedup.Abort
	default:
		return dedup.Skip
	}
}

// ConfirmPhrase asks a single free-form question and returns true
// only when the user types exactly phrase. Used for the top-level
// "really delete" gate.
func ConfirmPhrase(in io.Reader, out io.Writer, question, phrase string) bool {
	fmt.Fprintf(out, "%s Type %q to confirm: ", question, phrase)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), phrase)
}

// Compile-time check that ReaderPrompter implements dedup.Prompter
var _ dedup.Prompter = (*ReaderPrompter)(nil)
