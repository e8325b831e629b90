package testutil

import "dedup-go/internal/dedup"

// ScriptedPrompter replays a fixed sequence of decisions and records
// the paths it was asked about. Once the script runs out it skips.
type ScriptedPrompter struct {
	Script []dedup.Decision
	Asked  []string
	next   int
}

func (p *ScriptedPrompter) Confirm(path string) dedup.Decision {
	p.Asked = append(p.Asked, path)
	if p.next >= len(p.Script) {
		return dedup.Skip
	}
	d := p.Script[p.next]
	p.next++
	return d
}

// Compile-time check that ScriptedPrompter implements dedup.Prompter
var _ dedup.Prompter = (*ScriptedPrompter)(nil)
