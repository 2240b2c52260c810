package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/quotapace/internal/models"
)

// IssueType names a problem found in stored history
type IssueType string

const (
	IssueInvalidEntry IssueType = "invalid_entry"
	IssueDuplicateID  IssueType = "duplicate_id"
	IssueInvalidDate  IssueType = "invalid_date"
	IssueDateMismatch IssueType = "date_mismatch"
	IssueZeroTarget   IssueType = "zero_target"
)

// Issue is one finding against a single history entry
type Issue struct {
	Type        IssueType
	Index       int // position in the stored array
	EntryID     string
	Description string
}

// Droppable reports whether the entry must be discarded on load.
func (i Issue) Droppable() bool {
	return i.Type == IssueInvalidEntry || i.Type == IssueDuplicateID
}

// Result contains every issue found, in entry order
type Result struct {
	Issues []Issue
}

func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// Dropped returns the indices of entries that fail hard validation.
func (r *Result) Dropped() map[int]bool {
	out := make(map[int]bool)
	for _, is := range r.Issues {
		if is.Droppable() {
			out[is.Index] = true
		}
	}
	return out
}

// FormatReport returns a human-readable report of all issues
func (r *Result) FormatReport() string {
	if !r.HasIssues() {
		return "No issues detected."
	}

	var b strings.Builder
	b.WriteString("Issues detected:\n")
	for _, is := range r.Issues {
		fmt.Fprintf(&b, "- %s\n", is.Description)
	}
	return b.String()
}

// Validator checks archived history entries
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Entry runs the struct rules on a single entry.
func (v *Validator) Entry(e models.HistoryEntry) error {
	err := v.v.Struct(e)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return fmt.Errorf("invalid history entry: %s", strings.Join(fields, ", "))
	}
	return err
}

// History checks every entry. Struct failures and repeated ids are
// droppable; the rest are informational.
func (v *Validator) History(entries []models.HistoryEntry) Result {
	var res Result
	seen := make(map[string]bool, len(entries))

	for i, e := range entries {
		label := e.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}

		if err := v.Entry(e); err != nil {
			res.Issues = append(res.Issues, Issue{
				Type: IssueInvalidEntry, Index: i, EntryID: e.ID,
				Description: fmt.Sprintf("entry %s: %v", label, err),
			})
			continue
		}

		if seen[e.ID] {
			res.Issues = append(res.Issues, Issue{
				Type: IssueDuplicateID, Index: i, EntryID: e.ID,
				Description: fmt.Sprintf("entry %s: duplicate id, later copy ignored", label),
			})
			continue
		}
		seen[e.ID] = true

		at, err := time.Parse(time.RFC3339, e.Date)
		if err != nil {
			res.Issues = append(res.Issues, Issue{
				Type: IssueInvalidDate, Index: i, EntryID: e.ID,
				Description: fmt.Sprintf("entry %s: unreadable date %q", label, e.Date),
			})
		} else if at.Month().String() != e.Month || at.Year() != e.Year {
			res.Issues = append(res.Issues, Issue{
				Type: IssueDateMismatch, Index: i, EntryID: e.ID,
				Description: fmt.Sprintf("entry %s: filed under %s %d but dated %s", label, e.Month, e.Year, e.Date),
			})
		}

		for _, info := range models.Metrics() {
			g, _ := e.GoalSet().Goal(info.Key)
			if g.Target == 0 {
				res.Issues = append(res.Issues, Issue{
					Type: IssueZeroTarget, Index: i, EntryID: e.ID,
					Description: fmt.Sprintf("entry %s: %s has no target", label, strings.ToLower(info.Label)),
				})
			}
		}
	}

	return res
}
