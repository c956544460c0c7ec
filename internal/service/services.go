package service

import (
	"context"

	"github.com/dom/war-planner/internal/config"
	"github.com/dom/war-planner/internal/repository"
)

// Publisher is told about every committed change to a scope.
type Publisher interface {
	Publish(ctx context.Context, scope string)
}

type Services struct {
	Auth     *AuthService
	Champion *ChampionService
	Roster   *RosterService
	Plan     *PlanService
	War      *WarService
	Ban      *BanService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, pub Publisher) *Services {
	return &Services{
		Auth:     NewAuthService(repos.Player, cfg),
		Champion: NewChampionService(repos.Champion),
		Roster:   NewRosterService(repos.Player, repos.Roster),
		Plan:     NewPlanService(repos, pub),
		War:      NewWarService(repos, pub),
		Ban:      NewBanService(repos, cfg, pub),
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string) {}

func publisherOrNop(pub Publisher) Publisher {
	if pub == nil {
		return nopPublisher{}
	}
	return pub
}
