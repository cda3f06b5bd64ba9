package tui

import (
	"sort"

	"careboard/internal/schedule"
)

// LayoutItem positions one meeting inside a resource column. Lane and
// LaneCount split the column into side-by-side sub-columns so overlapping
// meetings never render on top of each other. Recomputed every render,
// never persisted.
type LayoutItem struct {
	Meeting    *schedule.Meeting
	StartIndex int
	EndIndex   int // exclusive
	Lane       int
	LaneCount  int
	Group      int
}

// Overlaps reports whether two layout items occupy overlapping index ranges.
func (it LayoutItem) Overlaps(other LayoutItem) bool {
	return it.StartIndex < other.EndIndex && other.StartIndex < it.EndIndex
}

// LayoutColumn assigns lanes to all meetings sharing one resource column.
// Meetings whose times fall outside the grid window are dropped; the data is
// owned externally and may predate a working-hours change.
func LayoutColumn(meetings []*schedule.Meeting, grid TimeGrid) []LayoutItem {
	items := make([]LayoutItem, 0, len(meetings))
	for _, m := range meetings {
		if m == nil {
			continue
		}
		start, end, ok := grid.Range(m.StartTime, m.EndTime)
		if !ok {
			continue
		}
		items = append(items, LayoutItem{Meeting: m, StartIndex: start, EndIndex: end})
	}

	// Start ascending, longer first on ties, ID for determinism
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StartIndex != items[j].StartIndex {
			return items[i].StartIndex < items[j].StartIndex
		}
		di := items[i].EndIndex - items[i].StartIndex
		dj := items[j].EndIndex - items[j].StartIndex
		if di != dj {
			return di > dj
		}
		return items[i].Meeting.ID < items[j].Meeting.ID
	})

	clusters := clusterByOverlap(items)

	for _, cluster := range clusters {
		assignLanes(items, cluster)
	}

	return items
}

// clusterByOverlap groups item indices into maximal transitively-overlapping
// clusters via breadth-first traversal of the overlap relation. Two meetings
// that never touch directly still share a cluster when a chain of overlaps
// connects them, which keeps block widths uniform across a visual group.
func clusterByOverlap(items []LayoutItem) [][]int {
	visited := make([]bool, len(items))
	var clusters [][]int

	for i := range items {
		if visited[i] {
			continue
		}

		var cluster []int
		queue := []int{i}
		visited[i] = true

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			cluster = append(cluster, cur)

			for j := range items {
				if !visited[j] && items[cur].Overlaps(items[j]) {
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}

		sort.Ints(cluster)
		clusters = append(clusters, cluster)
	}

	return clusters
}

// assignLanes places one cluster's items into the lowest free lane each, in
// start order, then stamps the shared lane count and group id on every item.
func assignLanes(items []LayoutItem, cluster []int) {
	var laneEnds []int // exclusive end index of the last item in each lane

	for _, idx := range cluster {
		item := &items[idx]

		lane := -1
		for l, end := range laneEnds {
			if end <= item.StartIndex {
				lane = l
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, 0)
		}
		laneEnds[lane] = item.EndIndex
		item.Lane = lane
	}

	group := cluster[0]
	count := len(laneEnds)
	for _, idx := range cluster {
		items[idx].LaneCount = count
		items[idx].Group = group
	}
}
