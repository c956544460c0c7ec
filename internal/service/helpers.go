package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/patch"
	"github.com/dom/war-planner/internal/repository"
	"github.com/dom/war-planner/internal/topology"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// notFound maps a missing row to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// resolveNode finds the node row a mutation targets by number or by id.
// Rows of a map are created on first use.
func resolveNode(ctx context.Context, nodes repository.NodeRepository, mapType domain.MapType, number int, nodeID string) (*domain.WarNode, error) {
	if number == 0 && nodeID == "" {
		return nil, domain.ErrMissingSlot
	}
	if number == 0 {
		id, err := uuid.Parse(nodeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidNode, nodeID)
		}
		all, err := nodes.GetByMap(ctx, mapType)
		if err != nil {
			return nil, err
		}
		for _, n := range all {
			if n.ID == id {
				return n, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidNode, nodeID)
	}

	if !topology.IsAssignable(mapType, number) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidNode, number)
	}
	node, err := nodes.GetByNumber(ctx, mapType, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := nodes.EnsureMap(ctx, mapType); err != nil {
			return nil, err
		}
		node, err = nodes.GetByNumber(ctx, mapType, number)
	}
	return node, err
}

// applyPlayer folds a tri-state player id into dst, checking the player
// exists.
func applyPlayer(ctx context.Context, players repository.PlayerRepository, f patch.Field[string], dst **uuid.UUID) error {
	raw, ok := f.Value()
	if !ok {
		if f.IsNull() {
			*dst = nil
		}
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPlayer, raw)
	}
	if _, err := players.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrUnknownPlayer, id)
		}
		return err
	}
	*dst = &id
	return nil
}

// applyChampion folds a tri-state champion id into dst, checking the
// champion exists.
func applyChampion(ctx context.Context, champions repository.ChampionRepository, f patch.Field[string], dst **string) error {
	id, ok := f.Value()
	if ok {
		if _, err := champions.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %q", domain.ErrUnknownChampion, id)
			}
			return err
		}
	}
	f.Apply(dst)
	return nil
}

// patchValue turns a required string into a field; "" stays unset.
func patchValue(v string) patch.Field[string] {
	if v == "" {
		return patch.Unset[string]()
	}
	return patch.Set(v)
}
