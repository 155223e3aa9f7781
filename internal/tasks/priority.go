package tasks

import "strings"

type Priority int

const (
	PriorityUnknown Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

// priorities is ordered by enum value; the order is also the sort order.
var priorities = []struct {
	priority Priority
	label    string
}{
	{PriorityUnknown, "Unknown"},
	{PriorityLow, "Low"},
	{PriorityMedium, "Medium"},
	{PriorityHigh, "High"},
	{PriorityUrgent, "Urgent"},
}

// PriorityLabels returns the valid labels in table order.
func PriorityLabels() []string {
	out := make([]string, 0, len(priorities))
	for _, p := range priorities {
		out = append(out, p.label)
	}
	return out
}

// ParsePriority maps a label to its priority. Anything else is Unknown.
func ParsePriority(label string) Priority {
	for _, p := range priorities {
		if p.label == label {
			return p.priority
		}
	}
	return PriorityUnknown
}

func (p Priority) String() string {
	for _, e := range priorities {
		if e.priority == p {
			return e.label
		}
	}
	return priorities[0].label
}

// CompletePriority returns the first label starting with prefix
// (case-insensitive) after the label current, wrapping around.
func CompletePriority(prefix, current string) string {
	labels := PriorityLabels()
	start := 0
	for i, l := range labels {
		if l == current {
			start = i + 1
			break
		}
	}
	lp := strings.ToLower(prefix)
	for i := 0; i < len(labels); i++ {
		l := labels[(start+i)%len(labels)]
		if strings.HasPrefix(strings.ToLower(l), lp) {
			return l
		}
	}
	return current
}
