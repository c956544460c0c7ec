package service_test

import (
	"context"
	"testing"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/repository/postgres"
	"github.com/dom/war-planner/internal/service"
	"github.com/dom/war-planner/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.Player, cfg)
	ctx := context.Background()

	tests := []struct {
		name        string
		input       service.RegisterInput
		setup       func()
		wantErr     error
		checkPlayer bool
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Name:        "newplayer",
				Password:    "password123",
				Battlegroup: 2,
			},
			checkPlayer: true,
		},
		{
			name: "officer registration",
			input: service.RegisterInput{
				Name:        "officer",
				Password:    "password123",
				Battlegroup: 1,
				IsOfficer:   true,
			},
			checkPlayer: true,
		},
		{
			name: "duplicate name",
			input: service.RegisterInput{
				Name:        "existingplayer",
				Password:    "password123",
				Battlegroup: 1,
			},
			setup: func() {
				testutil.NewPlayerBuilder().
					WithName("existingplayer").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrNameExists,
		},
		{
			name: "battlegroup out of range",
			input: service.RegisterInput{
				Name:        "lost",
				Password:    "password123",
				Battlegroup: 4,
			},
			wantErr: domain.ErrInvalidBattlegroup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clean up between tests
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			result, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			if tt.checkPlayer {
				require.NotNil(t, result.Player)
				assert.Equal(t, tt.input.Name, result.Player.Name)
				assert.Equal(t, tt.input.Battlegroup, result.Player.Battlegroup)
				assert.Equal(t, tt.input.IsOfficer, result.Player.IsOfficer)
				assert.NotEqual(t, tt.input.Password, result.Player.PasswordHash)
				assert.NotEmpty(t, result.AccessToken)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.Player, cfg)
	ctx := context.Background()

	// Create a player for login tests
	player, rawPassword := testutil.NewPlayerBuilder().
		WithName("loginplayer").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name: "successful login",
			input: service.LoginInput{
				Name:     player.Name,
				Password: rawPassword,
			},
		},
		{
			name: "wrong password",
			input: service.LoginInput{
				Name:     player.Name,
				Password: "wrongpassword",
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name: "non-existent player",
			input: service.LoginInput{
				Name:     "nonexistent",
				Password: "anypassword",
			},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result.Player)
			assert.Equal(t, player.ID, result.Player.ID)
			assert.NotEmpty(t, result.AccessToken)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.Player, cfg)
	ctx := context.Background()

	// Register an officer to get a valid token
	result, err := authService.Register(ctx, service.RegisterInput{
		Name:        "tokenplayer",
		Password:    "password123",
		Battlegroup: 3,
		IsOfficer:   true,
	})
	require.NoError(t, err)

	otherCfg := testutil.TestConfig()
	otherCfg.JWTSecret = "another-secret"
	foreign, err := service.NewAuthService(repos.Player, otherCfg).Login(ctx, service.LoginInput{
		Name:     "tokenplayer",
		Password: "password123",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid token", token: result.AccessToken},
		{name: "signed with another secret", token: foreign.AccessToken, wantErr: true},
		{name: "invalid token", token: "invalid.token.here", wantErr: true},
		{name: "malformed token", token: "notavalidjwt", wantErr: true},
		{name: "empty token", token: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := authService.ValidateToken(tt.token)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, result.Player.ID, claims.PlayerID)
			assert.Equal(t, "tokenplayer", claims.Name)
			assert.Equal(t, domain.Battlegroup(3), claims.Battlegroup)
			assert.True(t, claims.IsOfficer)
		})
	}
}

func TestAuthService_GetPlayerByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.Player, cfg)
	ctx := context.Background()

	player, _ := testutil.NewPlayerBuilder().
		WithName("getplayerbyid").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		id      uuid.UUID
		wantErr bool
	}{
		{name: "existing player", id: player.ID},
		{name: "non-existent player", id: uuid.New(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := authService.GetPlayerByID(ctx, tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, player.ID, got.ID)
			assert.Equal(t, player.Name, got.Name)
		})
	}
}
