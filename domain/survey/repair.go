package survey

import (
	"fmt"
	"sort"
	"strings"
)

// IDChange records a question or page id rewritten during repair.
type IDChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// RepairReport lists every structural fix applied by Repair.
type RepairReport struct {
	RenamedQuestions []IDChange `json:"renamedQuestions,omitempty"`
	RenamedPages     []IDChange `json:"renamedPages,omitempty"`
	DroppedRefs      []string   `json:"droppedRefs,omitempty"`
	CoercedTypes     []string   `json:"coercedTypes,omitempty"`
	Renumbered       bool       `json:"renumbered,omitempty"`
}

// Changed reports whether Repair modified anything.
func (r RepairReport) Changed() bool {
	return len(r.RenamedQuestions) > 0 || len(r.RenamedPages) > 0 ||
		len(r.DroppedRefs) > 0 || len(r.CoercedTypes) > 0 || r.Renumbered
}

// Validate rejects architectures that cannot be repaired into a usable plan.
func (a *Architecture) Validate() error {
	if a.QuestionCount() == 0 {
		return fmt.Errorf("architecture has no questions")
	}
	return nil
}

// Repair enforces the structural invariants on a copy of arch: dense 1..N page
// positions, unique page and question ids, known question types, and logic
// references that resolve to existing question ids. Applying it twice yields
// the same value as applying it once.
func Repair(arch Architecture) (Architecture, RepairReport) {
	out := arch.Clone()
	var report RepairReport

	sortPages(out.Pages)
	for i := range out.Pages {
		if out.Pages[i].Position != i+1 {
			out.Pages[i].Position = i + 1
			report.Renumbered = true
		}
	}

	// references resolve against ids present in the input, never against
	// ids assigned below
	known := make(map[string]bool)
	for _, p := range out.Pages {
		for _, q := range p.Questions {
			if id := strings.TrimSpace(q.ID); id != "" {
				known[id] = true
			}
		}
	}

	report.RenamedPages = dedupePageIDs(out.Pages)
	report.RenamedQuestions = dedupeQuestionIDs(out.Pages)

	for pi := range out.Pages {
		for qi := range out.Pages[pi].Questions {
			q := &out.Pages[pi].Questions[qi]
			if !q.Type.Valid() {
				report.CoercedTypes = append(report.CoercedTypes, fmt.Sprintf("%s:%s", q.ID, q.Type))
				q.Type = QuestionTextInput
			}
			if q.Logic.ShowIf != "" && !known[q.Logic.ShowIf] {
				report.DroppedRefs = append(report.DroppedRefs, fmt.Sprintf("%s.showIf=%s", q.ID, q.Logic.ShowIf))
				q.Logic.ShowIf = ""
			}
			if q.Logic.SkipTo != "" && !known[q.Logic.SkipTo] {
				report.DroppedRefs = append(report.DroppedRefs, fmt.Sprintf("%s.skipTo=%s", q.ID, q.Logic.SkipTo))
				q.Logic.SkipTo = ""
			}
			normalizeQuestion(q)
		}
	}
	if out.Validation.CompletionChecks == nil {
		out.Validation.CompletionChecks = []string{}
	}

	return out, report
}

// sortPages orders pages by their declared position, keeping input order for
// ties and placing unset positions last.
func sortPages(pages []Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		return positionKey(pages[i].Position) < positionKey(pages[j].Position)
	})
}

func positionKey(p int) int {
	if p <= 0 {
		return int(^uint(0) >> 1)
	}
	return p
}

func dedupePageIDs(pages []Page) []IDChange {
	reserved := make(map[string]bool, len(pages))
	for _, p := range pages {
		reserved[strings.TrimSpace(p.ID)] = true
	}

	var changes []IDChange
	used := make(map[string]bool, len(pages))
	for i := range pages {
		id := strings.TrimSpace(pages[i].ID)
		base := id
		if base == "" {
			base = fmt.Sprintf("page_%d", i+1)
		}
		next := base
		if id == "" || used[id] {
			next = uniqueID(base, reserved, used, id == "")
		}
		if next != pages[i].ID {
			changes = append(changes, IDChange{Old: pages[i].ID, New: next})
			pages[i].ID = next
		}
		used[next] = true
	}
	return changes
}

func dedupeQuestionIDs(pages []Page) []IDChange {
	reserved := make(map[string]bool)
	for _, p := range pages {
		for _, q := range p.Questions {
			reserved[strings.TrimSpace(q.ID)] = true
		}
	}

	var changes []IDChange
	used := make(map[string]bool)
	ordinal := 0
	for pi := range pages {
		for qi := range pages[pi].Questions {
			ordinal++
			q := &pages[pi].Questions[qi]
			id := strings.TrimSpace(q.ID)
			base := id
			if base == "" {
				base = fmt.Sprintf("q%d", ordinal)
			}
			next := base
			if id == "" || used[id] {
				next = uniqueID(base, reserved, used, id == "")
			}
			if next != q.ID {
				changes = append(changes, IDChange{Old: q.ID, New: next})
				q.ID = next
			}
			used[next] = true
		}
	}
	return changes
}

// uniqueID returns base when it is free (only for freshly assigned ids),
// otherwise the first base_N (N >= 2) not taken by any original or assigned id.
func uniqueID(base string, reserved, used map[string]bool, fresh bool) string {
	if fresh && !reserved[base] && !used[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !reserved[candidate] && !used[candidate] {
			return candidate
		}
	}
}

func normalizeQuestion(q *Question) {
	if q.Validation.Rules == nil {
		q.Validation.Rules = []string{}
	}
	if q.Validation.Messages == nil {
		q.Validation.Messages = map[string]string{}
	}
	if q.Analytics.TrackingEvents == nil {
		q.Analytics.TrackingEvents = []string{}
	}
}
