package service_test

import (
	"go.uber.org/zap"

	"branching-novel/internal/cache"
	"branching-novel/internal/interfaces"
	"branching-novel/internal/interfaces/mocks"
	"branching-novel/internal/service"
)

type fixture struct {
	nodes      *mocks.StoryNodeRepository
	choices    *mocks.ChoiceRepository
	dialogues  *mocks.DialogueRepository
	characters *mocks.CharacterRepository
	users      *mocks.UserRepository
	saves      *mocks.GameSaveRepository
	publisher  *mocks.ProgressPublisher
	executor   *inlineExecutor
	validator  *service.GraphValidator
	graph      *service.GraphStore
	svc        service.GameProgressionService
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	cache       interfaces.GraphCache
	startNodeID int64
}

func withCache(c interfaces.GraphCache) fixtureOption {
	return func(cfg *fixtureConfig) { cfg.cache = c }
}

func withStartNode(id int64) fixtureOption {
	return func(cfg *fixtureConfig) { cfg.startNodeID = id }
}

func newFixture(opts ...fixtureOption) *fixture {
	cfg := fixtureConfig{cache: cache.NewNoopGraphCache()}
	for _, o := range opts {
		o(&cfg)
	}

	f := &fixture{
		nodes:      new(mocks.StoryNodeRepository),
		choices:    new(mocks.ChoiceRepository),
		dialogues:  new(mocks.DialogueRepository),
		characters: new(mocks.CharacterRepository),
		users:      new(mocks.UserRepository),
		saves:      new(mocks.GameSaveRepository),
		publisher:  new(mocks.ProgressPublisher),
		executor:   &inlineExecutor{},
	}
	log := zap.NewNop()
	f.validator = service.NewGraphValidator(f.nodes, f.choices, log)
	f.graph = service.NewGraphStore(nil, f.executor, service.GraphRepositories{
		Nodes:      f.nodes,
		Choices:    f.choices,
		Dialogues:  f.dialogues,
		Characters: f.characters,
		Saves:      f.saves,
	}, f.validator, cfg.cache, log)
	f.svc = service.NewGameProgressionService(service.ProgressionDeps{
		Executor:    f.executor,
		Validator:   f.validator,
		Graph:       f.graph,
		Saves:       f.saves,
		Users:       f.users,
		Publisher:   f.publisher,
		StartNodeID: cfg.startNodeID,
	}, log)
	return f
}
