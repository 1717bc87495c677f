package service

import (
	"strings"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
)

// treeOrder returns all tasks with every child placed directly after its
// parent or phase, siblings keeping their relative order. Tasks whose group
// is missing are treated as roots.
func treeOrder(all []domain.Task) []domain.Task {
	index := make(map[string]int, len(all))
	for i := range all {
		index[all[i].ID] = i
	}
	children := make(map[string][]int, len(all))
	var roots []int
	for i := range all {
		g := all[i].GroupID()
		if _, ok := index[g]; g == "" || !ok || g == all[i].ID {
			roots = append(roots, i)
			continue
		}
		children[g] = append(children[g], i)
	}

	out := make([]domain.Task, 0, len(all))
	placed := make([]bool, len(all))
	var walk func(i int)
	walk = func(i int) {
		if placed[i] {
			return
		}
		placed[i] = true
		out = append(out, all[i])
		for _, c := range children[all[i].ID] {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	// Tasks caught in a parent cycle never hang off a root.
	for i := range all {
		walk(i)
	}
	return out
}

// applyFilter returns the tasks a chart shows for f, in tree order.
func applyFilter(all []domain.Task, f contract.TaskFilter) []domain.Task {
	ordered := treeOrder(all)
	if f.IsZero() {
		return ordered
	}

	group := make(map[string]string, len(all))
	for i := range all {
		group[all[i].ID] = all[i].GroupID()
	}
	ancestors := func(id string, fn func(string) bool) {
		seen := map[string]bool{id: true}
		for g := group[id]; g != "" && !seen[g]; g = group[g] {
			seen[g] = true
			if fn(g) {
				return
			}
		}
	}

	statuses := make(map[domain.TaskStatus]bool, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses[s] = true
	}
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	keep := make(map[string]bool, len(all))
	for i := range ordered {
		t := &ordered[i]
		if f.HideCompleted && t.Status == domain.TaskDone {
			continue
		}
		if len(statuses) > 0 && !statuses[t.Status] {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Name), needle) {
			continue
		}
		keep[t.ID] = true
	}
	if needle != "" {
		for id := range keep {
			ancestors(id, func(g string) bool {
				keep[g] = true
				return false
			})
		}
	}

	collapsed := make(map[string]bool, len(f.Collapsed))
	for _, id := range f.Collapsed {
		collapsed[id] = true
	}

	out := make([]domain.Task, 0, len(keep))
	for _, t := range ordered {
		if !keep[t.ID] {
			continue
		}
		hidden := false
		ancestors(t.ID, func(g string) bool {
			hidden = collapsed[g]
			return hidden
		})
		if !hidden {
			out = append(out, t)
		}
	}
	return out
}
