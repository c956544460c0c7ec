package postgres

import (
	"context"
	"encoding/json"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/topology"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type nodeRepository struct {
	db *gorm.DB
}

func NewNodeRepository(db *gorm.DB) *nodeRepository {
	return &nodeRepository{db: db}
}

func (r *nodeRepository) EnsureMap(ctx context.Context, mapType domain.MapType) error {
	numbers := topology.AssignableNumbers(mapType)
	nodes := make([]*domain.WarNode, 0, len(numbers))
	for _, n := range numbers {
		nodes = append(nodes, &domain.WarNode{
			MapType:     mapType,
			NodeNumber:  n,
			Allocations: datatypes.JSON("[]"),
		})
	}
	if len(nodes) == 0 {
		return domain.ErrInvalidMapType
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "map_type"}, {Name: "node_number"}},
		DoNothing: true,
	}).Create(&nodes).Error
}

func (r *nodeRepository) GetByMap(ctx context.Context, mapType domain.MapType) ([]*domain.WarNode, error) {
	var nodes []*domain.WarNode
	err := r.db.WithContext(ctx).
		Where("map_type = ?", mapType).
		Order("node_number ASC").
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *nodeRepository) GetByNumber(ctx context.Context, mapType domain.MapType, number int) (*domain.WarNode, error) {
	var node domain.WarNode
	err := r.db.WithContext(ctx).
		First(&node, "map_type = ? AND node_number = ?", mapType, number).Error
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *nodeRepository) SetAllocations(ctx context.Context, mapType domain.MapType, number int, allocations []domain.NodeAllocation) error {
	if allocations == nil {
		allocations = []domain.NodeAllocation{}
	}
	data, err := json.Marshal(allocations)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&domain.WarNode{}).
		Where("map_type = ? AND node_number = ?", mapType, number).
		Update("allocations", datatypes.JSON(data))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
