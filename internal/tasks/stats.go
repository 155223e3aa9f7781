package tasks

// Stats counts rows per view.
type Stats struct {
	Total     int
	Completed int
	Remaining int
	Urgent    int // open tasks at High or Urgent priority
}

func StatsOf(rows []Row) Stats {
	var st Stats
	for _, r := range rows {
		st.Total++
		if r.Task.Done {
			st.Completed++
			continue
		}
		st.Remaining++
		if r.Priority >= PriorityHigh {
			st.Urgent++
		}
	}
	return st
}

// Count returns how many rows mode would show.
func (s Stats) Count(mode ViewMode) int {
	switch mode {
	case ViewCompleted:
		return s.Completed
	case ViewRemaining:
		return s.Remaining
	default:
		return s.Total
	}
}
