package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/war-planner/internal/config"
	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNameExists         = errors.New("player name already exists")
)

type AuthService struct {
	playerRepo repository.PlayerRepository
	cfg        *config.Config
}

func NewAuthService(playerRepo repository.PlayerRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		playerRepo: playerRepo,
		cfg:        cfg,
	}
}

type RegisterInput struct {
	Name        string
	Password    string
	Battlegroup domain.Battlegroup
	IsOfficer   bool
}

type LoginInput struct {
	Name     string
	Password string
}

type AuthResult struct {
	Player      *domain.Player
	AccessToken string
}

// Claims is the parsed access token.
type Claims struct {
	PlayerID    uuid.UUID
	Name        string
	Battlegroup domain.Battlegroup
	IsOfficer   bool
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if _, err := domain.ParseBattlegroup(int(input.Battlegroup)); err != nil {
		return nil, err
	}
	existing, err := s.playerRepo.GetByName(ctx, input.Name)
	if err == nil && existing != nil {
		return nil, ErrNameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	player := &domain.Player{
		ID:           uuid.New(),
		Name:         input.Name,
		Battlegroup:  input.Battlegroup,
		IsOfficer:    input.IsOfficer,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, err
	}

	return s.issue(player)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	player, err := s.playerRepo.GetByName(ctx, input.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(player)
}

func (s *AuthService) issue(player *domain.Player) (*AuthResult, error) {
	token, err := s.generateAccessToken(player)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Player: player, AccessToken: token}, nil
}

func (s *AuthService) generateAccessToken(player *domain.Player) (string, error) {
	claims := jwt.MapClaims{
		"sub":     player.ID.String(),
		"name":    player.Name,
		"bg":      int(player.Battlegroup),
		"officer": player.IsOfficer,
		"exp":     time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := mc["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid subject")
	}
	claims := &Claims{PlayerID: id}
	claims.Name, _ = mc["name"].(string)
	claims.IsOfficer, _ = mc["officer"].(bool)
	if bg, ok := mc["bg"].(float64); ok {
		claims.Battlegroup = domain.Battlegroup(bg)
	}
	return claims, nil
}

func (s *AuthService) GetPlayerByID(ctx context.Context, id uuid.UUID) (*domain.Player, error) {
	return s.playerRepo.GetByID(ctx, id)
}
