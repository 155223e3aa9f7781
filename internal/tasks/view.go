package tasks

import (
	"sort"
	"strings"
)

type ViewMode int

const (
	ViewAll ViewMode = iota
	ViewCompleted
	ViewRemaining
)

const viewCount = 3

func (v ViewMode) String() string {
	switch v {
	case ViewCompleted:
		return "Completed tasks"
	case ViewRemaining:
		return "Remaining tasks"
	default:
		return "All tasks"
	}
}

// Next cycles All -> Completed -> Remaining -> All.
func (v ViewMode) Next() ViewMode { return (v + 1) % viewCount }

// Visible reports whether a task with the given done flag shows in v.
func (v ViewMode) Visible(done bool) bool {
	switch v {
	case ViewCompleted:
		return done
	case ViewRemaining:
		return !done
	default:
		return true
	}
}

type SortColumn int

const (
	SortNone SortColumn = iota
	SortDone
	SortTitle
	SortStart
	SortEnd
	SortPriority
)

func (c SortColumn) String() string {
	switch c {
	case SortDone:
		return "done"
	case SortTitle:
		return "title"
	case SortStart:
		return "beginning"
	case SortEnd:
		return "completion"
	case SortPriority:
		return "priority"
	default:
		return "none"
	}
}

// Next cycles through the sortable columns, none included.
func (c SortColumn) Next() SortColumn { return (c + 1) % (SortPriority + 1) }

type SortSpec struct {
	Column     SortColumn
	Descending bool
}

// Project filters rows through mode and sorts the survivors. The input
// slice is left untouched; equal keys keep list order.
func Project(rows []Row, mode ViewMode, spec SortSpec) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if mode.Visible(r.Task.Done) {
			out = append(out, r)
		}
	}
	if spec.Column == SortNone {
		return out
	}
	less := lessFunc(spec.Column)
	sort.SliceStable(out, func(i, j int) bool {
		if spec.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(c SortColumn) func(a, b Row) bool {
	switch c {
	case SortDone:
		return func(a, b Row) bool { return !a.Task.Done && b.Task.Done }
	case SortTitle:
		return func(a, b Row) bool { return strings.ToLower(a.Task.Title) < strings.ToLower(b.Task.Title) }
	case SortStart:
		return func(a, b Row) bool { return a.Task.Start.Before(b.Task.Start) }
	case SortEnd:
		return func(a, b Row) bool { return a.Task.End.Before(b.Task.End) }
	case SortPriority:
		return func(a, b Row) bool { return a.Priority < b.Priority }
	default:
		return func(a, b Row) bool { return false }
	}
}
