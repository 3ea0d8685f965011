package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"branching-novel/internal/cache"
	"branching-novel/internal/database"
	"branching-novel/internal/messaging"
	"branching-novel/internal/models"
	"branching-novel/internal/service"
)

type ProgressionIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	graph     *service.GraphStore
	svc       service.GameProgressionService
	userID    int64
}

func (s *ProgressionIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.container, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("novel-test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(2*time.Minute),
		),
	)
	s.Require().NoError(err, "Failed to start postgres container")

	dsn, err := s.container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(database.ApplyMigrations(dsn, zap.NewNop()))

	s.pool, err = pgxpool.New(s.ctx, dsn)
	s.Require().NoError(err)

	log := zap.NewNop()
	repos := service.GraphRepositories{
		Nodes:      database.NewPgStoryNodeRepository(log),
		Choices:    database.NewPgChoiceRepository(log),
		Dialogues:  database.NewPgDialogueRepository(log),
		Characters: database.NewPgCharacterRepository(log),
		Saves:      database.NewPgGameSaveRepository(log),
	}
	executor := service.NewTxExecutor(s.pool, log)
	validator := service.NewGraphValidator(repos.Nodes, repos.Choices, log)
	s.graph = service.NewGraphStore(s.pool, executor, repos, validator, cache.NewNoopGraphCache(), log)
	s.svc = service.NewGameProgressionService(service.ProgressionDeps{
		DB:        s.pool,
		Executor:  executor,
		Validator: validator,
		Graph:     s.graph,
		Saves:     repos.Saves,
		Users:     database.NewPgUserRepository(log),
		Publisher: messaging.NewNoopProgressPublisher(log),
	}, log)
}

func (s *ProgressionIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *ProgressionIntegrationSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE game_saves, choices, dialogues, player_characters, characters, story_nodes, users RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)

	user, err := database.NewPgUserRepository(zap.NewNop()).Create(s.ctx, s.pool,
		&models.User{Username: "player", PasswordHash: "x", Role: models.RolePlayer})
	s.Require().NoError(err)
	s.userID = user.ID
}

// twoNodeStory creates Start -> Hallway and returns their ids and the choice id.
func (s *ProgressionIntegrationSuite) twoNodeStory() (start, hallway, choiceID int64) {
	a, err := s.graph.CreateNode(s.ctx, models.StoryNode{Title: "Start"})
	s.Require().NoError(err)
	b, err := s.graph.CreateNode(s.ctx, models.StoryNode{Title: "Hallway"})
	s.Require().NoError(err)
	c, err := s.graph.CreateChoice(s.ctx, models.Choice{SourceNodeID: a.ID, TargetNodeID: b.ID, Label: "Open the door"})
	s.Require().NoError(err)
	return a.ID, b.ID, c.ID
}

func (s *ProgressionIntegrationSuite) TestPlaythrough() {
	start, hallway, choiceID := s.twoNodeStory()

	save, err := s.svc.StartGame(s.ctx, s.userID, start, "")
	s.Require().NoError(err)
	s.Equal(models.DefaultSaveName, save.SaveName)
	s.Equal(start, save.CurrentStoryNodeID)

	state, err := s.svc.MakeChoice(s.ctx, save.ID, choiceID)
	s.Require().NoError(err)
	s.Equal(hallway, state.CurrentStoryNodeID)
	s.True(state.AtEnding)

	_, err = s.svc.MakeChoice(s.ctx, save.ID, choiceID)
	s.ErrorIs(err, models.ErrInvalidChoice)

	state, err = s.svc.GetGameState(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(hallway, state.CurrentStoryNodeID)

	view, err := s.svc.GetCurrentNode(s.ctx, s.userID)
	s.Require().NoError(err)
	s.True(view.IsEnding)

	state, err = s.svc.MoveToPreviousNode(s.ctx, s.userID, start)
	s.Require().NoError(err)
	s.Equal(start, state.CurrentStoryNodeID)

	_, err = s.svc.SaveProgress(s.ctx, s.userID, 9999)
	s.ErrorIs(err, models.ErrInvalidNode)

	loaded, err := s.svc.LoadGame(s.ctx, save.ID)
	s.Require().NoError(err)
	s.Equal(start, loaded.Save.CurrentStoryNodeID)
	s.Len(loaded.Node.Choices, 1)
}

func (s *ProgressionIntegrationSuite) TestStartGameRejectsUnknownNodeAndUser() {
	start, _, _ := s.twoNodeStory()

	_, err := s.svc.StartGame(s.ctx, s.userID, 9999, "bad")
	s.ErrorIs(err, models.ErrInvalidNode)

	_, err = s.svc.StartGame(s.ctx, 9999, start, "bad")
	s.ErrorIs(err, models.ErrNotFound)

	saves, err := s.svc.ListGameSaves(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(saves)
}

func (s *ProgressionIntegrationSuite) TestConcurrentChoicesOnOneSave() {
	start, hallway, choiceID := s.twoNodeStory()
	save, err := s.svc.StartGame(s.ctx, s.userID, start, "race")
	s.Require().NoError(err)

	const players = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		okCount  int
		rejected int
	)
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.MakeChoice(s.ctx, save.ID, choiceID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				okCount++
			case s.ErrorIs(err, models.ErrInvalidChoice):
				rejected++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, okCount, "exactly one choice may move the save")
	s.Equal(players-1, rejected)

	current, err := s.svc.GetGameSave(s.ctx, save.ID)
	s.Require().NoError(err)
	s.Equal(hallway, current.CurrentStoryNodeID)
}

func (s *ProgressionIntegrationSuite) TestDeleteNodeInUse() {
	start, hallway, choiceID := s.twoNodeStory()

	_, err := s.graph.DeleteNode(s.ctx, hallway)
	s.ErrorIs(err, models.ErrConflict, "a targeted node cannot be removed")

	save, err := s.svc.StartGame(s.ctx, s.userID, start, "")
	s.Require().NoError(err)
	_, err = s.graph.DeleteChoice(s.ctx, choiceID)
	s.Require().NoError(err)

	_, err = s.graph.DeleteNode(s.ctx, start)
	s.ErrorIs(err, models.ErrConflict, "a node with saves on it cannot be removed")

	_, err = s.svc.DeleteGameSave(s.ctx, save.ID)
	s.Require().NoError(err)
	deleted, err := s.graph.DeleteNode(s.ctx, start)
	s.Require().NoError(err)
	s.Require().NotNil(deleted)

	choices, err := s.svc.GetChoicesForNode(s.ctx, start)
	s.ErrorIs(err, models.ErrInvalidNode)
	s.Nil(choices)
}

func TestProgressionIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Skipf("Docker client init error: %v", err)
	}
	defer cli.Close()
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Skipf("Docker daemon is not reachable: %v", err)
	}

	suite.Run(t, new(ProgressionIntegrationSuite))
}
