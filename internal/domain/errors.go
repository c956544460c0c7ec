package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidBattlegroup = errors.New("battlegroup must be 1, 2 or 3")
	ErrInvalidMapType     = errors.New("invalid map type")
	ErrInvalidNode        = errors.New("node is not assignable")
)

// Ban errors
var (
	ErrWarBanLimit     = errors.New("war ban limit reached")
	ErrDuplicateBan    = errors.New("champion is already banned")
	ErrChampionBanned  = errors.New("champion is banned")
	ErrUnknownChampion = errors.New("unknown champion")
	ErrUnknownPlayer   = errors.New("unknown player")
)

// Mutation errors
var (
	ErrMissingSlot = errors.New("mutation needs a node number or node id")
)

// IsInvalid reports whether err is a rejected input rather than a failure.
func IsInvalid(err error) bool {
	for _, target := range []error{
		ErrInvalidBattlegroup, ErrInvalidMapType, ErrInvalidNode,
		ErrWarBanLimit, ErrDuplicateBan, ErrChampionBanned,
		ErrUnknownChampion, ErrUnknownPlayer, ErrMissingSlot,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
