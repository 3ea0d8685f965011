// Command seed loads a small demo story into an empty database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"branching-novel/internal/cache"
	"branching-novel/internal/config"
	"branching-novel/internal/database"
	"branching-novel/internal/logger"
	"branching-novel/internal/models"
	"branching-novel/internal/service"
)

const defaultSeedPassword = "player"

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: "console"})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.ApplyMigrations(cfg.Pool().DSN(), log); err != nil {
		log.Fatal("Failed to apply database migrations", zap.Error(err))
	}
	pool, err := database.NewPool(ctx, cfg.Pool(), log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	if err := seed(ctx, pool, log); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}

func seed(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	repos := service.GraphRepositories{
		Nodes:      database.NewPgStoryNodeRepository(log),
		Choices:    database.NewPgChoiceRepository(log),
		Dialogues:  database.NewPgDialogueRepository(log),
		Characters: database.NewPgCharacterRepository(log),
		Saves:      database.NewPgGameSaveRepository(log),
	}
	users := database.NewPgUserRepository(log)

	existing, err := repos.Nodes.List(ctx, pool)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("Story graph already present, nothing to seed", zap.Int("nodes", len(existing)))
		return nil
	}

	executor := service.NewTxExecutor(pool, log)
	validator := service.NewGraphValidator(repos.Nodes, repos.Choices, log)
	graph := service.NewGraphStore(pool, executor, repos, validator, cache.NewNoopGraphCache(), log)

	start, err := graph.CreateNode(ctx, models.StoryNode{Title: "Start", Description: "You wake up in a quiet room."})
	if err != nil {
		return err
	}
	hallway, err := graph.CreateNode(ctx, models.StoryNode{Title: "Hallway", Description: "A long corridor stretches ahead."})
	if err != nil {
		return err
	}
	if _, err := graph.CreateChoice(ctx, models.Choice{SourceNodeID: start.ID, TargetNodeID: hallway.ID, Label: "Open the door"}); err != nil {
		return err
	}

	guide, err := graph.CreateCharacter(ctx, models.Character{Name: "Guide", Description: "A calm voice from nowhere."}, nil)
	if err != nil {
		return err
	}
	hero, err := graph.CreateCharacter(ctx, models.Character{Name: "Hero", Description: "That's you."}, &models.PlayerCharacter{Health: 100})
	if err != nil {
		return err
	}

	lines := []models.Dialogue{
		{StoryNodeID: start.ID, Text: "The room is silent.", Position: 0},
		{StoryNodeID: start.ID, CharacterID: &guide.Character.ID, Text: "The door is unlocked.", Position: 1},
		{StoryNodeID: hallway.ID, CharacterID: &hero.Character.ID, Text: "Where does this lead?", Position: 0},
	}
	for _, line := range lines {
		if _, err := graph.CreateDialogue(ctx, line); err != nil {
			return err
		}
	}

	password, err := config.SecretOrEnv("seed_password", "SEED_PASSWORD")
	if err != nil || password == "" {
		password = defaultSeedPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	user, err := users.Create(ctx, pool, &models.User{Username: "player", PasswordHash: string(hash), Role: models.RolePlayer})
	if err != nil {
		return err
	}

	log.Info("Demo story seeded",
		zap.Int64("start_node_id", start.ID),
		zap.Int64("hallway_node_id", hallway.ID),
		zap.Int64("user_id", user.ID),
	)
	return nil
}
