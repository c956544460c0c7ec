package planning

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/topology"
)

// Store is the in-memory record list of one scope and battlegroup, plus
// the catalogues used to denormalise it. It is not safe for concurrent use;
// Session guards it.
type Store struct {
	mapType domain.MapType
	records []Record

	nodesByNumber map[int]NodeInfo
	nodesByID     map[string]NodeInfo

	champions map[string]ChampionSummary
	players   map[string]PlayerSummary
	rosters   map[string]map[string]RosterChampion
}

func NewStore(mapType domain.MapType) *Store {
	return &Store{
		mapType:       mapType,
		nodesByNumber: make(map[int]NodeInfo),
		nodesByID:     make(map[string]NodeInfo),
		champions:     make(map[string]ChampionSummary),
		players:       make(map[string]PlayerSummary),
		rosters:       make(map[string]map[string]RosterChampion),
	}
}

// SetNodes caches server nodes. Numbers that are portals or unknown to the
// map topology are dropped.
func (s *Store) SetNodes(nodes []NodeInfo) {
	s.nodesByNumber = make(map[int]NodeInfo, len(nodes))
	s.nodesByID = make(map[string]NodeInfo, len(nodes))
	for _, n := range nodes {
		if !topology.IsAssignable(s.mapType, n.Number) {
			continue
		}
		s.nodesByNumber[n.Number] = n
		if n.ID != "" {
			s.nodesByID[n.ID] = n
		}
	}
}

func (s *Store) SetChampions(champions []ChampionSummary) {
	s.champions = make(map[string]ChampionSummary, len(champions))
	for _, c := range champions {
		s.champions[c.ID] = c
	}
}

func (s *Store) SetPlayers(players []PlayerSummary) {
	s.players = make(map[string]PlayerSummary, len(players))
	for _, p := range players {
		s.players[p.ID] = p
	}
}

func (s *Store) SetRoster(playerID string, roster []RosterChampion) {
	byChampion := make(map[string]RosterChampion, len(roster))
	for _, r := range roster {
		byChampion[r.ChampionID] = r
	}
	s.rosters[playerID] = byChampion
}

// RosterEntry looks up a champion in a player's roster.
func (s *Store) RosterEntry(playerID, championID string) (RosterChampion, bool) {
	r, ok := s.rosters[playerID][championID]
	return r, ok
}

// Node joins a node number with the cached server node. When topology
// data is missing it returns a stub with no allocations.
func (s *Store) Node(number int) NodeInfo {
	if n, ok := s.nodesByNumber[number]; ok {
		return n
	}
	return NodeInfo{Number: number, Allocations: []domain.NodeAllocation{}}
}

// NodeByID resolves a server node id.
func (s *Store) NodeByID(id string) (NodeInfo, bool) {
	n, ok := s.nodesByID[id]
	return n, ok
}

// Nodes returns every assignable node of the map, joined with cached
// server data, ordered by number.
func (s *Store) Nodes() []NodeInfo {
	numbers := topology.AssignableNumbers(s.mapType)
	out := make([]NodeInfo, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, s.Node(n))
	}
	return out
}

// Records returns a deep copy of the current list.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.clone()
	}
	return out
}

// Replace swaps the whole list, joining and sorting it.
func (s *Store) Replace(records []Record) {
	s.records = make([]Record, 0, len(records))
	for _, r := range records {
		s.records = append(s.records, s.enrich(r.clone()))
	}
	s.sort()
}

func (s *Store) sort() {
	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].NodeNumber < s.records[j].NodeNumber
	})
}

func (s *Store) indexByID(id string) int {
	if id == "" {
		return -1
	}
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexByNode(number int) int {
	for i, r := range s.records {
		if r.NodeNumber == number {
			return i
		}
	}
	return -1
}

// ByID returns a copy of the record with the given id.
func (s *Store) ByID(id string) (Record, bool) {
	i := s.indexByID(id)
	if i < 0 {
		return Record{}, false
	}
	return s.records[i].clone(), true
}

// ByNode returns a copy of the record on a node.
func (s *Store) ByNode(number int) (Record, bool) {
	i := s.indexByNode(number)
	if i < 0 {
		return Record{}, false
	}
	return s.records[i].clone(), true
}

// locate finds the record a mutation targets: by id first, then by node.
func (s *Store) locate(m Mutation) int {
	if i := s.indexByID(m.ID); i >= 0 {
		return i
	}
	if m.ID != "" && m.NodeID == "" && m.NodeNumber == 0 {
		return -1
	}
	if number := s.resolveNumber(m); number > 0 {
		return s.indexByNode(number)
	}
	return -1
}

// resolveNumber maps a mutation's node reference to a node number.
func (s *Store) resolveNumber(m Mutation) int {
	if m.NodeNumber > 0 {
		return m.NodeNumber
	}
	if m.NodeID == "" {
		return 0
	}
	if n, ok := s.nodesByID[m.NodeID]; ok {
		return n.Number
	}
	if node, ok := topology.NodeByID(s.mapType, m.NodeID); ok && !node.IsPortal {
		return node.Number
	}
	return 0
}

// put replaces or appends a record.
func (s *Store) put(r Record) {
	r = s.enrich(r)
	if i := s.indexByID(r.ID); i >= 0 {
		s.records[i] = r
		return
	}
	if i := s.indexByNode(r.NodeNumber); i >= 0 {
		s.records[i] = r
		return
	}
	s.records = append(s.records, r)
	s.sort()
}

// removeNode drops the record on a node.
func (s *Store) removeNode(number int) {
	i := s.indexByNode(number)
	if i < 0 {
		return
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
}

// renameID swaps a temporary id for the server id.
func (s *Store) renameID(from, to string) {
	if i := s.indexByID(from); i >= 0 {
		s.records[i].ID = to
	}
}

// enrich joins node topology and re-resolves display summaries.
func (s *Store) enrich(r Record) Record {
	if r.NodeNumber == 0 && r.NodeID != "" {
		if n, ok := s.nodesByID[r.NodeID]; ok {
			r.NodeNumber = n.Number
		}
	}
	r.Node = s.Node(r.NodeNumber)
	if r.NodeID == "" {
		r.NodeID = r.Node.ID
	}
	r.Champion = s.champion(r.ChampionID)
	r.Defender = s.champion(r.DefenderID)
	r.Player = s.player(r.PlayerID)
	return r
}

func (s *Store) champion(id *string) *ChampionSummary {
	if id == nil {
		return nil
	}
	if c, ok := s.champions[*id]; ok {
		c.Tags = append([]string(nil), c.Tags...)
		return &c
	}
	return &ChampionSummary{ID: *id, Name: *id}
}

func (s *Store) player(id *string) *PlayerSummary {
	if id == nil {
		return nil
	}
	if p, ok := s.players[*id]; ok {
		return &p
	}
	return &PlayerSummary{ID: *id}
}

// fingerprint serialises records for cheap change detection.
func fingerprint(records []Record) string {
	data, err := json.Marshal(records)
	if err != nil {
		return strconv.Itoa(len(records))
	}
	return string(data)
}

func (s *Store) assignable(number int) bool {
	return topology.IsAssignable(s.mapType, number)
}
