package tabast

// Span is a half-open column interval.
type Span struct {
	From int
	To   int
}

func (s Span) overlaps(o Span) bool {
	if s.From == o.From {
		return true
	}
	return s.From < o.To && o.From < s.To
}

type pivotGroup[T any] struct {
	pivot   Span
	members []T
}

// GroupPivotal groups nodes from parallel lines by column overlap with each
// group's pivot, the leftmost-starting member. Lines are visited round-robin,
// one node per line per pass, and groups stay in left-to-right order.
func GroupPivotal[T any](lines [][]T, span func(T) Span) [][]T {
	var groups []pivotGroup[T]
	cursors := make([]int, len(lines))
	for {
		progressed := false
		for li, line := range lines {
			if cursors[li] >= len(line) {
				continue
			}
			node := line[cursors[li]]
			cursors[li]++
			progressed = true

			s := span(node)
			placed := false
			for gi := range groups {
				g := &groups[gi]
				if s.overlaps(g.pivot) {
					g.members = append(g.members, node)
					if s.From < g.pivot.From {
						g.pivot = s
					}
					placed = true
					break
				}
				if s.To <= g.pivot.From {
					groups = insertAt(groups, gi, pivotGroup[T]{pivot: s, members: []T{node}})
					placed = true
					break
				}
			}
			if !placed {
				groups = append(groups, pivotGroup[T]{pivot: s, members: []T{node}})
			}
		}
		if !progressed {
			break
		}
	}

	result := make([][]T, len(groups))
	for i, g := range groups {
		result[i] = g.members
	}
	return result
}

// GroupSequential puts the i-th node of every line into group i.
func GroupSequential[T any](lines [][]T) [][]T {
	var groups [][]T
	for i := 0; ; i++ {
		var group []T
		for _, line := range lines {
			if i < len(line) {
				group = append(group, line[i])
			}
		}
		if group == nil {
			return groups
		}
		groups = append(groups, group)
	}
}

type soundGroup[T any] struct {
	distance int
	members  []T
}

// GroupSounds groups nodes whose distance from their line start is equal.
// Groups are ordered by distance; lines are visited round-robin as in
// GroupPivotal.
func GroupSounds[T any](lines [][]T, distance func(T) int) [][]T {
	var groups []soundGroup[T]
	cursors := make([]int, len(lines))
	for {
		progressed := false
		for li, line := range lines {
			if cursors[li] >= len(line) {
				continue
			}
			node := line[cursors[li]]
			cursors[li]++
			progressed = true

			d := distance(node)
			placed := false
			for gi := range groups {
				if d == groups[gi].distance {
					groups[gi].members = append(groups[gi].members, node)
					placed = true
					break
				}
				if d < groups[gi].distance {
					groups = insertAt(groups, gi, soundGroup[T]{distance: d, members: []T{node}})
					placed = true
					break
				}
			}
			if !placed {
				groups = append(groups, soundGroup[T]{distance: d, members: []T{node}})
			}
		}
		if !progressed {
			break
		}
	}

	result := make([][]T, len(groups))
	for i, g := range groups {
		result[i] = g.members
	}
	return result
}

// Placed is a node tagged with the line it was found on.
type Placed[T any] struct {
	Line int
	Node T
}

// Entry is one element of an ordered measure: either a run of connectors or
// a sound.
type Entry[T any] struct {
	Connectors bool
	Members    []Placed[T]
}

// OrderConnectors interleaves connector groups with sounds. Before each
// sound it emits the connectors that precede any of the sound's members on
// the member's line. Each line's connector list is consumed by a cursor that
// never rewinds; connectors left over at the end are emitted as one trailing
// group per line.
func OrderConnectors[T any](connectors [][]T, sounds [][]Placed[T], anchor func(T) int, start func(T) int) []Entry[T] {
	var entries []Entry[T]
	cursors := make([]int, len(connectors))
	for _, sound := range sounds {
		var pending []Placed[T]
		for _, m := range sound {
			if m.Line >= len(connectors) {
				continue
			}
			line := connectors[m.Line]
			for cursors[m.Line] < len(line) && anchor(line[cursors[m.Line]]) < start(m.Node) {
				pending = append(pending, Placed[T]{Line: m.Line, Node: line[cursors[m.Line]]})
				cursors[m.Line]++
			}
		}
		if len(pending) > 0 {
			entries = append(entries, Entry[T]{Connectors: true, Members: pending})
		}
		entries = append(entries, Entry[T]{Members: sound})
	}

	for li, line := range connectors {
		if cursors[li] >= len(line) {
			continue
		}
		var dangling []Placed[T]
		for _, c := range line[cursors[li]:] {
			dangling = append(dangling, Placed[T]{Line: li, Node: c})
		}
		entries = append(entries, Entry[T]{Connectors: true, Members: dangling})
	}
	return entries
}

func insertAt[T any](s []T, i int, v T) []T {
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
