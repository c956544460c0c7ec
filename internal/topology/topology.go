// Package topology holds the static war map graphs and the keyboard
// navigation order over their assignable nodes.
package topology

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/dom/war-planner/internal/domain"
)

// Node is one vertex of a war map. Portals only connect path segments and
// never hold an assignment.
type Node struct {
	ID       string   `json:"id"`
	Number   int      `json:"number,omitempty"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Paths    []string `json:"paths"`
	IsPortal bool     `json:"isPortal"`
}

// Columns is the grid width used for vertical navigation.
func Columns(mapType domain.MapType) int {
	if mapType == domain.MapTypeBigThing {
		return 5
	}
	return 9
}

// BossNumber is the terminal node of a map.
func BossNumber(mapType domain.MapType) int {
	if mapType == domain.MapTypeBigThing {
		return 10
	}
	return 50
}

type graph struct {
	nodes      []Node
	byID       map[string]int
	byNumber   map[int]int
	navigation []string
}

var (
	graphsOnce sync.Once
	graphs     map[domain.MapType]*graph
)

func load() map[domain.MapType]*graph {
	graphsOnce.Do(func() {
		graphs = map[domain.MapType]*graph{
			domain.MapTypeStandard: index(standardNodes()),
			domain.MapTypeBigThing: index(bigThingNodes()),
		}
	})
	return graphs
}

func index(nodes []Node) *graph {
	g := &graph{
		nodes:    nodes,
		byID:     make(map[string]int, len(nodes)),
		byNumber: make(map[int]int, len(nodes)),
	}
	for i, n := range nodes {
		g.byID[n.ID] = i
		if n.IsPortal {
			continue
		}
		g.byNumber[n.Number] = i
		g.navigation = append(g.navigation, n.ID)
	}
	return g
}

func lookup(mapType domain.MapType) *graph {
	g, ok := load()[mapType]
	if !ok {
		return load()[domain.MapTypeStandard]
	}
	return g
}

// Nodes returns the ordered node list for a map type, portals included.
// Unknown map types fall back to STANDARD.
func Nodes(mapType domain.MapType) []Node {
	g := lookup(mapType)
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// AssignableNumbers returns the node numbers of every non-portal node in
// ascending order.
func AssignableNumbers(mapType domain.MapType) []int {
	g := lookup(mapType)
	out := make([]int, 0, len(g.navigation))
	for _, id := range g.navigation {
		out = append(out, g.nodes[g.byID[id]].Number)
	}
	return out
}

// NodeByID finds a node, portals included.
func NodeByID(mapType domain.MapType, id string) (Node, bool) {
	g := lookup(mapType)
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// NodeByNumber finds an assignable node by its gameplay number.
func NodeByNumber(mapType domain.MapType, number int) (Node, bool) {
	g := lookup(mapType)
	i, ok := g.byNumber[number]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// IsAssignable reports whether number names a non-portal node of the map.
func IsAssignable(mapType domain.MapType, number int) bool {
	_, ok := NodeByNumber(mapType, number)
	return ok
}

// Next steps through the non-portal nodes in order, wrapping in both
// directions. It returns false when currentID is empty or not a navigable
// node.
func Next(currentID string, direction int, mapType domain.MapType) (string, bool) {
	if currentID == "" {
		return "", false
	}
	ids := lookup(mapType).navigation
	count := len(ids)
	if count == 0 {
		return "", false
	}
	current := -1
	for i, id := range ids {
		if id == currentID {
			current = i
			break
		}
	}
	if current < 0 {
		return "", false
	}
	next := ((current+direction)%count + count) % count
	return ids[next], true
}

// Direction is a keyboard navigation step.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Step converts a direction into the signed index offset for a map.
func (d Direction) Step(mapType domain.MapType) int {
	switch d {
	case Left:
		return -1
	case Right:
		return 1
	case Up:
		return -Columns(mapType)
	case Down:
		return Columns(mapType)
	}
	return 0
}

// Navigate is Next with a named direction.
func Navigate(currentID string, d Direction, mapType domain.MapType) (string, bool) {
	return Next(currentID, d.Step(mapType), mapType)
}

// Validate checks that every assignable node reachable from a start portal
// has a finite path to the boss, and that every assignable node is
// reachable at all.
func Validate(mapType domain.MapType) error {
	g := lookup(mapType)
	boss := strconv.Itoa(BossNumber(mapType))

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.nodes))
	reachesBoss := make(map[string]bool, len(g.nodes))

	var visit func(id string) (bool, error)
	visit = func(id string) (bool, error) {
		switch state[id] {
		case visiting:
			return false, fmt.Errorf("%s: cycle through node %s", mapType, id)
		case done:
			return reachesBoss[id], nil
		}
		i, ok := g.byID[id]
		if !ok {
			return false, fmt.Errorf("%s: path to unknown node %s", mapType, id)
		}
		state[id] = visiting
		n := g.nodes[i]
		ok = id == boss
		for _, next := range n.Paths {
			r, err := visit(next)
			if err != nil {
				return false, err
			}
			ok = ok || r
		}
		state[id] = done
		reachesBoss[id] = ok
		return ok, nil
	}

	for _, n := range g.nodes {
		if !n.IsPortal || !isStart(n.ID) {
			continue
		}
		if _, err := visit(n.ID); err != nil {
			return err
		}
	}

	for _, id := range g.navigation {
		if state[id] != done {
			return fmt.Errorf("%s: node %s is unreachable from any start portal", mapType, id)
		}
		if !reachesBoss[id] {
			return fmt.Errorf("%s: node %s has no path to the boss", mapType, id)
		}
	}
	return nil
}

func isStart(id string) bool {
	return len(id) > 0 && id[0] == 'S'
}
