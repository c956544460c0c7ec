package topology

import "strconv"

const (
	cellWidth  = 100
	cellHeight = 120
)

func numbered(n, col, row int, paths ...string) Node {
	return Node{
		ID:     strconv.Itoa(n),
		Number: n,
		X:      float64(col * cellWidth),
		Y:      float64(row * cellHeight),
		Paths:  paths,
	}
}

func portal(id string, x, y float64, paths ...string) Node {
	return Node{ID: id, X: x, Y: y, Paths: paths, IsPortal: true}
}

func ids(numbers ...int) []string {
	out := make([]string, len(numbers))
	for i, n := range numbers {
		out[i] = strconv.Itoa(n)
	}
	return out
}

// standardNodes builds the 50-node map: nine lanes of five tiers, four
// mini bosses and the boss. Lanes 3 and 7 have a teleport portal that skips
// a tier.
func standardNodes() []Node {
	const lanes = 9
	nodes := []Node{
		portal("S1", 1*cellWidth, 0, ids(1, 2, 3)...),
		portal("S2", 4*cellWidth, 0, ids(4, 5, 6)...),
		portal("S3", 7*cellWidth, 0, ids(7, 8, 9)...),
	}

	for tier := 0; tier < 4; tier++ {
		for lane := 0; lane < lanes; lane++ {
			n := tier*lanes + lane + 1
			paths := ids(n + lanes)
			nodes = append(nodes, numbered(n, lane, tier+1, paths...))
			switch n {
			case 12:
				nodes[len(nodes)-1].Paths = append(nodes[len(nodes)-1].Paths, "P1")
				nodes = append(nodes, portal("P1", 2.5*cellWidth, 2.5*cellHeight, ids(30)...))
			case 16:
				nodes[len(nodes)-1].Paths = append(nodes[len(nodes)-1].Paths, "P2")
				nodes = append(nodes, portal("P2", 6.5*cellWidth, 2.5*cellHeight, ids(34)...))
			}
		}
	}

	miniBoss := func(lane int) int {
		switch {
		case lane <= 1:
			return 46
		case lane <= 3:
			return 47
		case lane <= 5:
			return 48
		}
		return 49
	}
	for lane := 0; lane < lanes; lane++ {
		n := 4*lanes + lane + 1
		nodes = append(nodes, numbered(n, lane, 5, ids(miniBoss(lane))...))
	}

	for i, n := range []int{46, 47, 48, 49} {
		nodes = append(nodes, numbered(n, 1+i*2, 6, ids(50)...))
	}
	nodes = append(nodes, numbered(50, 4, 7))
	return nodes
}

// bigThingNodes builds the 10-node map used for the big-thing format.
func bigThingNodes() []Node {
	return []Node{
		portal("S1", 0.5*cellWidth, 0, ids(1, 2)...),
		portal("S2", 2*cellWidth, 0, ids(3)...),
		portal("S3", 3.5*cellWidth, 0, ids(4, 5)...),
		numbered(1, 0, 1, ids(6)...),
		numbered(2, 1, 1, ids(6)...),
		numbered(3, 2, 1, "P1"),
		portal("P1", 2*cellWidth, 1.5*cellHeight, ids(7)...),
		numbered(4, 3, 1, ids(8)...),
		numbered(5, 4, 1, ids(9)...),
		numbered(6, 0, 2, ids(10)...),
		numbered(7, 1, 2, ids(10)...),
		numbered(8, 3, 2, ids(10)...),
		numbered(9, 4, 2, ids(10)...),
		numbered(10, 2, 3),
	}
}
