package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oksasatya/taskmaster/internal/domain/entity"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterImportant Filter = "important"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

var Filters = []Filter{FilterAll, FilterImportant, FilterPending, FilterCompleted}

type SortMode string

const (
	SortDate  SortMode = "date"
	SortAlpha SortMode = "alpha"
	SortColor SortMode = "color"
)

var SortModes = []SortMode{SortDate, SortAlpha, SortColor}

func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all, important, pending or completed)", s)
}

func ParseSort(s string) (SortMode, error) {
	if s == "" {
		return SortDate, nil
	}
	for _, m := range SortModes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q (want date, alpha or color)", s)
}

// Match reports whether t belongs to the filter. Important means important and
// still pending.
func (f Filter) Match(t entity.Task) bool {
	switch f {
	case FilterImportant:
		return !t.Completed && t.Important
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Derive filters then sorts a copy of tasks. The input is never modified.
func Derive(tasks []entity.Task, f Filter, mode SortMode) []entity.Task {
	out := make([]entity.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t.Clone())
		}
	}

	var less func(a, b entity.Task) bool
	switch mode {
	case SortAlpha:
		less = func(a, b entity.Task) bool {
			la, lb := strings.ToLower(a.Title), strings.ToLower(b.Title)
			if la != lb {
				return la < lb
			}
			return a.Title < b.Title
		}
	case SortColor:
		less = func(a, b entity.Task) bool { return a.Priority() < b.Priority() }
	default:
		less = func(a, b entity.Task) bool { return a.CreatedAt > b.CreatedAt }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Counts holds the size of each filter.
type Counts struct {
	All       int
	Important int
	Pending   int
	Completed int
}

func (c Counts) Of(f Filter) int {
	switch f {
	case FilterImportant:
		return c.Important
	case FilterPending:
		return c.Pending
	case FilterCompleted:
		return c.Completed
	default:
		return c.All
	}
}

func CountTasks(tasks []entity.Task) Counts {
	var c Counts
	for _, t := range tasks {
		c.All++
		if FilterImportant.Match(t) {
			c.Important++
		}
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}
