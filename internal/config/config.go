// Package config loads shift setup documents: the date, shift, and line
// roster an operator configures before a shift starts. Documents are YAML,
// validated against an embedded CUE schema before anything touches the
// board, so malformed setups fail at the boundary with a real error
// message instead of surfacing as a broken board later.
package config

import (
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/crescent-ops/lineup/internal/board"
)

// setupSchema constrains shift setup documents. Kept in CUE so the
// constraints read as data, not as a pile of if statements.
const setupSchema = `
#Setup: {
	date:  string & =~"^\\d{4}-\\d{2}-\\d{2}$"
	shift: "1st" | "2nd" | "3rd"
	lines: [...#Line]
}

#Line: {
	letter: string & != ""
	leads?: [...string]
	needed: int & >=0 & <=50
}
`

// Setup is one shift configuration document.
type Setup struct {
	Date  string      `yaml:"date" json:"date"`
	Shift string      `yaml:"shift" json:"shift"`
	Lines []LineSetup `yaml:"lines" json:"lines,omitempty"`
}

// LineSetup describes one line to create.
type LineSetup struct {
	Letter string   `yaml:"letter" json:"letter"`
	Leads  []string `yaml:"leads" json:"leads,omitempty"`
	Needed int      `yaml:"needed" json:"needed"`
}

// LoadFile reads, parses, and validates a setup document from disk.
func LoadFile(path string) (Setup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Setup{}, fmt.Errorf("read setup: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a YAML setup document.
func Parse(data []byte) (Setup, error) {
	var setup Setup
	if err := yaml.Unmarshal(data, &setup); err != nil {
		return Setup{}, fmt.Errorf("parse setup: %w", err)
	}
	if err := validate(setup); err != nil {
		return Setup{}, err
	}
	return setup, nil
}

// validate unifies the document with the embedded schema.
func validate(setup Setup) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(setupSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("setup schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Setup"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("setup schema: %w", err)
	}

	unified := def.Unify(ctx.Encode(setup))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid setup: %s", cueerrors.Details(err, nil))
	}
	return nil
}

// Build constructs the initial board snapshot: every configured line with
// its full capacity of vacant positions and an empty waitlist.
func (s Setup) Build(gen board.IDGenerator, now time.Time) board.Snapshot {
	snap := board.Snapshot{
		Date:        s.Date,
		Shift:       s.Shift,
		LastUpdated: now,
	}
	for _, ls := range s.Lines {
		line := board.Line{
			ID:     gen.NewID(),
			Letter: ls.Letter,
			Leads:  append([]string(nil), ls.Leads...),
			Needed: ls.Needed,
		}
		for i := 0; i < ls.Needed; i++ {
			line.Positions = append(line.Positions, board.Position{ID: gen.NewID()})
		}
		snap.Lines = append(snap.Lines, line)
	}
	return snap
}
