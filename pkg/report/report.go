// Package report turns check results into text and JSON reports.
//
// A [Report] is the serializable form of a [pipeline.Result]: findings with
// positions and messages, a per-kind summary and the files that could not be
// analyzed. [WriteText] prints one finding per line in compiler style:
//
//	src/game.ts:3:10: missing-dependency: Velocity is added before its dependency Position
//
// [WriteJSON] emits the whole report.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/compcheck/pkg/finding"
	"github.com/matzehuels/compcheck/pkg/pipeline"
)

// Report is a complete run report.
type Report struct {
	RunID       string         `json:"run_id"`
	Root        string         `json:"root"`
	Snapshot    uint64         `json:"snapshot"`
	Fingerprint string         `json:"fingerprint"`
	Summary     map[string]int `json:"summary"`
	Findings    []Entry        `json:"findings"`
	Failed      []Failure      `json:"failed,omitempty"`
	Stats       Stats          `json:"stats"`
}

// Entry is one finding.
type Entry struct {
	File    string            `json:"file"`
	Line    int               `json:"line"`
	Column  int               `json:"column"`
	Kind    finding.Kind      `json:"kind"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

// Failure is a file that could not be analyzed.
type Failure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Stats summarizes the run.
type Stats struct {
	Files      int   `json:"files"`
	Units      int   `json:"units"`
	Checked    int   `json:"checked"`
	Components int   `json:"components"`
	DurationMS int64 `json:"duration_ms"`
}

// New builds the report of res.
func New(res *pipeline.Result) Report {
	r := Report{
		RunID:       res.RunID,
		Root:        res.Root,
		Snapshot:    uint64(res.Snapshot),
		Fingerprint: res.Fingerprint,
		Summary:     make(map[string]int),
		Findings:    make([]Entry, 0, len(res.Findings)),
		Stats: Stats{
			Files:      res.Stats.Files,
			Units:      res.Stats.Units,
			Checked:    res.Stats.Checked,
			Components: res.Stats.Components,
			DurationMS: res.Stats.Total.Milliseconds(),
		},
	}
	for k, n := range res.Counts() {
		r.Summary[string(k)] = n
	}
	for _, f := range res.Findings {
		r.Findings = append(r.Findings, NewEntry(f))
	}
	for _, p := range slices.Sorted(maps.Keys(res.Failed)) {
		r.Failed = append(r.Failed, Failure{File: p, Error: res.Failed[p].Error()})
	}
	return r
}

// NewEntry converts one finding.
func NewEntry(f finding.Finding) Entry {
	pos := f.Pos()
	return Entry{
		File:    pos.Path,
		Line:    pos.Line,
		Column:  pos.Column,
		Kind:    f.Kind,
		Message: Message(f),
		Data:    f.Data,
	}
}

// Location returns "file:line:col", omitting unknown parts.
func (e Entry) Location() string {
	switch {
	case e.File == "":
		return "<unknown>"
	case e.Line == 0:
		return e.File
	}
	return fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
}

// Total returns the number of findings.
func (r Report) Total() int { return len(r.Findings) }

// WriteText prints the findings, the failures and a summary line.
func WriteText(w io.Writer, r Report) error {
	for _, e := range r.Findings {
		if _, err := fmt.Fprintf(w, "%s: %s: %s\n", e.Location(), e.Kind, e.Message); err != nil {
			return err
		}
	}
	for _, f := range r.Failed {
		if _, err := fmt.Fprintf(w, "%s: skipped: %s\n", f.File, f.Error); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, Summary(r))
	return err
}

// Summary returns a one-line summary such as
// "2 findings in 5 files (1 cycle, 1 missing-dependency)".
func Summary(r Report) string {
	noun := "findings"
	if r.Total() == 1 {
		noun = "finding"
	}
	files := "files"
	if r.Stats.Checked == 1 {
		files = "file"
	}
	s := fmt.Sprintf("%d %s in %d %s", r.Total(), noun, r.Stats.Checked, files)
	if r.Total() == 0 {
		return s
	}
	var parts []string
	for _, k := range finding.Kinds {
		if n := r.Summary[string(k)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return s + " (" + strings.Join(parts, ", ") + ")"
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Duration formats d for summaries.
func Duration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
