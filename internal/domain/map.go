package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MapType identifies which war map topology a plan or war uses.
type MapType string

const (
	MapTypeStandard MapType = "STANDARD"
	MapTypeBigThing MapType = "BIG_THING"
)

// IsValid checks if a map type is known
func (m MapType) IsValid() bool {
	switch m {
	case MapTypeStandard, MapTypeBigThing:
		return true
	}
	return false
}

// Battlegroup is one of the three parallel groups a war or plan is split into.
type Battlegroup int

const (
	MinBattlegroup Battlegroup = 1
	MaxBattlegroup Battlegroup = 3
)

// AllBattlegroups contains all valid battlegroups in order
var AllBattlegroups = []Battlegroup{1, 2, 3}

func (b Battlegroup) IsValid() bool {
	return b >= MinBattlegroup && b <= MaxBattlegroup
}

// ParseBattlegroup validates a raw battlegroup number.
func ParseBattlegroup(n int) (Battlegroup, error) {
	bg := Battlegroup(n)
	if !bg.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBattlegroup, n)
	}
	return bg, nil
}

// PlanScope names the channel a plan battlegroup publishes changes on.
func PlanScope(planID fmt.Stringer, bg Battlegroup) string {
	return fmt.Sprintf("plan:%s:bg:%d", planID, bg)
}

func WarScope(warID fmt.Stringer, bg Battlegroup) string {
	return fmt.Sprintf("war:%s:bg:%d", warID, bg)
}

// SeasonScope names the channel season-wide changes (season bans) go to.
func SeasonScope(seasonID fmt.Stringer) string {
	return fmt.Sprintf("season:%s", seasonID)
}

// Scope is a parsed scope name. Battlegroup is 0 for season scopes.
type Scope struct {
	Kind        string
	ID          uuid.UUID
	Battlegroup Battlegroup
}

// ParseScope splits a plan, war or season scope name.
func ParseScope(s string) (Scope, error) {
	parts := strings.Split(s, ":")
	switch {
	case len(parts) == 2 && parts[0] == "season":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return Scope{}, fmt.Errorf("scope %q: %w", s, err)
		}
		return Scope{Kind: parts[0], ID: id}, nil
	case len(parts) == 4 && (parts[0] == "plan" || parts[0] == "war") && parts[2] == "bg":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return Scope{}, fmt.Errorf("scope %q: %w", s, err)
		}
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return Scope{}, fmt.Errorf("scope %q: %w", s, ErrInvalidBattlegroup)
		}
		bg, err := ParseBattlegroup(n)
		if err != nil {
			return Scope{}, fmt.Errorf("scope %q: %w", s, err)
		}
		return Scope{Kind: parts[0], ID: id, Battlegroup: bg}, nil
	}
	return Scope{}, fmt.Errorf("scope %q: want plan:<id>:bg:<n>, war:<id>:bg:<n> or season:<id>", s)
}

// IsScope reports whether s is a well-formed plan, war or season scope.
func IsScope(s string) bool {
	_, err := ParseScope(s)
	return err == nil
}
