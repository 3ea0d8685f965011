package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"branching-novel/internal/dto"
	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

// GameProgressionService moves players through the story graph.
type GameProgressionService interface {
	// StartGame creates a save at storyNodeID, or at the designated start node when it is 0.
	StartGame(ctx context.Context, userID, storyNodeID int64, saveName string) (*dto.GameSaveDto, error)
	// GetGameState returns the position of the user's most recently updated save.
	GetGameState(ctx context.Context, userID int64) (*dto.GameState, error)
	GetGameSave(ctx context.Context, saveID int64) (*dto.GameSaveDto, error)
	ListGameSaves(ctx context.Context, userID int64) ([]dto.GameSaveDto, error)
	MakeChoice(ctx context.Context, saveID, choiceID int64) (*dto.GameState, error)
	// MakeChoiceForUser applies the choice to the user's current save.
	MakeChoiceForUser(ctx context.Context, userID, choiceID int64) (*dto.GameState, error)
	MoveToNextNode(ctx context.Context, userID, nodeID int64) (*dto.GameState, error)
	MoveToPreviousNode(ctx context.Context, userID, previousNodeID int64) (*dto.GameState, error)
	SaveProgress(ctx context.Context, userID, nodeID int64) (*dto.GameState, error)
	LoadGame(ctx context.Context, saveID int64) (*dto.GameView, error)
	GetCurrentNode(ctx context.Context, userID int64) (*dto.NodeView, error)
	GetChoicesForNode(ctx context.Context, nodeID int64) ([]dto.ChoiceDto, error)
	// DeleteGameSave returns the deleted save, or nil when there was none.
	DeleteGameSave(ctx context.Context, saveID int64) (*dto.GameSaveDto, error)
}

type gameProgressionServiceImpl struct {
	db          interfaces.DBTX
	executor    Executor
	validator   *GraphValidator
	graph       *GraphStore
	saves       interfaces.GameSaveRepository
	users       interfaces.UserRepository
	publisher   interfaces.ProgressPublisher
	startNodeID int64
	logger      *zap.Logger
}

var _ GameProgressionService = (*gameProgressionServiceImpl)(nil)

// ProgressionDeps are the collaborators of the progression service.
type ProgressionDeps struct {
	DB        interfaces.DBTX
	Executor  Executor
	Validator *GraphValidator
	Graph     *GraphStore
	Saves     interfaces.GameSaveRepository
	Users     interfaces.UserRepository
	Publisher interfaces.ProgressPublisher
	// StartNodeID is used by StartGame when no node is given. 0 disables the default.
	StartNodeID int64
}

// NewGameProgressionService creates the progression service.
func NewGameProgressionService(deps ProgressionDeps, logger *zap.Logger) GameProgressionService {
	return &gameProgressionServiceImpl{
		db:          deps.DB,
		executor:    deps.Executor,
		validator:   deps.Validator,
		graph:       deps.Graph,
		saves:       deps.Saves,
		users:       deps.Users,
		publisher:   deps.Publisher,
		startNodeID: deps.StartNodeID,
		logger:      logger.Named("GameProgressionService"),
	}
}

func (s *gameProgressionServiceImpl) StartGame(ctx context.Context, userID, storyNodeID int64, saveName string) (*dto.GameSaveDto, error) {
	if storyNodeID == 0 {
		storyNodeID = s.startNodeID
	}
	saveName = strings.TrimSpace(saveName)
	if saveName == "" {
		saveName = models.DefaultSaveName
	}
	log := s.logger.With(zap.Int64("userID", userID), zap.Int64("nodeID", storyNodeID))
	if userID <= 0 {
		return nil, fmt.Errorf("%w: playerCharacterId must be positive", models.ErrValidation)
	}
	if storyNodeID <= 0 {
		return nil, fmt.Errorf("%w: no story node given and no start node configured", models.ErrInvalidNode)
	}

	var created *models.GameSave
	err := s.executor.Execute(ctx, "StartGame", func(ctx context.Context, q interfaces.DBTX) error {
		if _, err := RequireEntity[models.User](ctx, q, s.users, userID); err != nil {
			return err
		}
		if err := s.validator.RequireNode(ctx, q, storyNodeID); err != nil {
			return err
		}
		var err error
		created, err = s.saves.Create(ctx, q, &models.GameSave{
			UserID:             userID,
			SaveName:           saveName,
			CurrentStoryNodeID: storyNodeID,
		})
		return err
	})
	if err != nil {
		s.recordFailure(log, models.TransitionStart, err)
		return nil, err
	}

	s.afterCommit(ctx, log, models.TransitionStart, nil, created)
	log.Info("Game started", zap.Int64("saveID", created.ID))
	out := dto.ToGameSaveDto(*created)
	return &out, nil
}

func (s *gameProgressionServiceImpl) GetGameState(ctx context.Context, userID int64) (*dto.GameState, error) {
	save, err := s.saves.GetLatestByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	state := dto.ToGameState(*save)
	return &state, nil
}

func (s *gameProgressionServiceImpl) GetGameSave(ctx context.Context, saveID int64) (*dto.GameSaveDto, error) {
	save, err := s.saves.GetByID(ctx, s.db, saveID)
	if err != nil {
		return nil, err
	}
	out := dto.ToGameSaveDto(*save)
	return &out, nil
}

func (s *gameProgressionServiceImpl) ListGameSaves(ctx context.Context, userID int64) ([]dto.GameSaveDto, error) {
	saves, err := s.saves.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToGameSaveDtos(saves), nil
}

func (s *gameProgressionServiceImpl) MakeChoice(ctx context.Context, saveID, choiceID int64) (*dto.GameState, error) {
	log := s.logger.With(zap.Int64("saveID", saveID), zap.Int64("choiceID", choiceID))
	return s.transition(ctx, log, "MakeChoice", models.TransitionChoice,
		func(ctx context.Context, q interfaces.DBTX) (*models.GameSave, error) {
			return s.saves.GetByIDForUpdate(ctx, q, saveID)
		},
		func(ctx context.Context, q interfaces.DBTX, save *models.GameSave) (int64, error) {
			return s.validator.ValidateTransition(ctx, q, save.CurrentStoryNodeID, choiceID)
		},
	)
}

func (s *gameProgressionServiceImpl) MakeChoiceForUser(ctx context.Context, userID, choiceID int64) (*dto.GameState, error) {
	log := s.logger.With(zap.Int64("userID", userID), zap.Int64("choiceID", choiceID))
	return s.transition(ctx, log, "MakeChoice", models.TransitionChoice,
		s.lockLatestSave(userID),
		func(ctx context.Context, q interfaces.DBTX, save *models.GameSave) (int64, error) {
			return s.validator.ValidateTransition(ctx, q, save.CurrentStoryNodeID, choiceID)
		},
	)
}

func (s *gameProgressionServiceImpl) MoveToNextNode(ctx context.Context, userID, nodeID int64) (*dto.GameState, error) {
	log := s.logger.With(zap.Int64("userID", userID), zap.Int64("nodeID", nodeID))
	return s.transition(ctx, log, "MoveToNextNode", models.TransitionNext,
		s.lockLatestSave(userID), s.requireTarget(nodeID))
}

// MoveToPreviousNode trusts the caller's history. A previous node without an
// edge into the current one is allowed but logged and counted.
func (s *gameProgressionServiceImpl) MoveToPreviousNode(ctx context.Context, userID, previousNodeID int64) (*dto.GameState, error) {
	log := s.logger.With(zap.Int64("userID", userID), zap.Int64("nodeID", previousNodeID))
	return s.transition(ctx, log, "MoveToPreviousNode", models.TransitionPrevious,
		s.lockLatestSave(userID),
		func(ctx context.Context, q interfaces.DBTX, save *models.GameSave) (int64, error) {
			if err := s.validator.RequireNode(ctx, q, previousNodeID); err != nil {
				return 0, err
			}
			linked, err := s.validator.HasEdge(ctx, q, previousNodeID, save.CurrentStoryNodeID)
			if err != nil {
				return 0, err
			}
			if !linked {
				unverifiedPreviousMovesTotal.Inc()
				log.Warn("Previous node has no choice leading to the current node",
					zap.Int64("saveID", save.ID), zap.Int64("currentNodeID", save.CurrentStoryNodeID))
			}
			return previousNodeID, nil
		},
	)
}

func (s *gameProgressionServiceImpl) SaveProgress(ctx context.Context, userID, nodeID int64) (*dto.GameState, error) {
	log := s.logger.With(zap.Int64("userID", userID), zap.Int64("nodeID", nodeID))
	return s.transition(ctx, log, "SaveProgress", models.TransitionSave,
		s.lockLatestSave(userID), s.requireTarget(nodeID))
}

func (s *gameProgressionServiceImpl) LoadGame(ctx context.Context, saveID int64) (*dto.GameView, error) {
	save, err := s.saves.GetByID(ctx, s.db, saveID)
	if err != nil {
		return nil, err
	}
	view, err := s.nodeView(ctx, save.CurrentStoryNodeID)
	if err != nil {
		return nil, err
	}
	return &dto.GameView{Save: dto.ToGameSaveDto(*save), Node: *view}, nil
}

func (s *gameProgressionServiceImpl) GetCurrentNode(ctx context.Context, userID int64) (*dto.NodeView, error) {
	save, err := s.saves.GetLatestByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return s.nodeView(ctx, save.CurrentStoryNodeID)
}

func (s *gameProgressionServiceImpl) GetChoicesForNode(ctx context.Context, nodeID int64) ([]dto.ChoiceDto, error) {
	choices, err := s.graph.ChoicesForNode(ctx, nodeID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: story node %d does not exist", models.ErrInvalidNode, nodeID)
		}
		return nil, err
	}
	return dto.ToChoiceDtos(choices), nil
}

func (s *gameProgressionServiceImpl) DeleteGameSave(ctx context.Context, saveID int64) (*dto.GameSaveDto, error) {
	deleted, err := s.saves.Delete(ctx, s.db, saveID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		s.logger.Debug("No game save to delete", zap.Int64("saveID", saveID))
		return nil, nil
	}
	s.logger.Info("Game save deleted", zap.Int64("saveID", saveID), zap.Int64("userID", deleted.UserID))
	out := dto.ToGameSaveDto(*deleted)
	return &out, nil
}

type (
	lockSaveFunc    func(ctx context.Context, q interfaces.DBTX) (*models.GameSave, error)
	resolveNodeFunc func(ctx context.Context, q interfaces.DBTX, save *models.GameSave) (int64, error)
)

// transition locks a save, resolves its next node against the locked row and
// stores it, all in one unit of work.
func (s *gameProgressionServiceImpl) transition(
	ctx context.Context,
	log *zap.Logger,
	operation string,
	kind models.TransitionKind,
	lock lockSaveFunc,
	resolve resolveNodeFunc,
) (*dto.GameState, error) {
	var (
		fromNodeID int64
		updated    *models.GameSave
	)
	err := s.executor.Execute(ctx, operation, func(ctx context.Context, q interfaces.DBTX) error {
		save, err := lock(ctx, q)
		if err != nil {
			return err
		}
		target, err := resolve(ctx, q, save)
		if err != nil {
			return err
		}
		fromNodeID = save.CurrentStoryNodeID
		updated, err = s.saves.UpdatePosition(ctx, q, save.ID, target)
		return err
	})
	if err != nil {
		s.recordFailure(log, kind, err)
		return nil, err
	}

	s.afterCommit(ctx, log, kind, &fromNodeID, updated)
	state := dto.ToGameState(*updated)
	state.AtEnding = s.isEnding(ctx, log, updated.CurrentStoryNodeID)
	return &state, nil
}

// isEnding reports whether nodeID has no outgoing choices. A failed lookup
// reports false; the move is already committed.
func (s *gameProgressionServiceImpl) isEnding(ctx context.Context, log *zap.Logger, nodeID int64) bool {
	choices, err := s.graph.ChoicesForNode(ctx, nodeID)
	if err != nil {
		log.Warn("Could not check whether the node is an ending", zap.Int64("nodeID", nodeID), zap.Error(err))
		return false
	}
	return len(choices) == 0
}

func (s *gameProgressionServiceImpl) lockLatestSave(userID int64) lockSaveFunc {
	return func(ctx context.Context, q interfaces.DBTX) (*models.GameSave, error) {
		return s.saves.GetLatestByUserForUpdate(ctx, q, userID)
	}
}

func (s *gameProgressionServiceImpl) requireTarget(nodeID int64) resolveNodeFunc {
	return func(ctx context.Context, q interfaces.DBTX, _ *models.GameSave) (int64, error) {
		if err := s.validator.RequireNode(ctx, q, nodeID); err != nil {
			return 0, err
		}
		return nodeID, nil
	}
}

func (s *gameProgressionServiceImpl) nodeView(ctx context.Context, nodeID int64) (*dto.NodeView, error) {
	content, err := s.graph.LoadNodeContent(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	view := dto.ToNodeView(*content)
	return &view, nil
}

func (s *gameProgressionServiceImpl) recordFailure(log *zap.Logger, kind models.TransitionKind, err error) {
	outcome := "error"
	switch {
	case errors.Is(err, models.ErrInvalidChoice), errors.Is(err, models.ErrInvalidNode), errors.Is(err, models.ErrValidation):
		outcome = "rejected"
		log.Info("Transition rejected", zap.Error(err))
	case errors.Is(err, models.ErrNotFound):
		outcome = "not_found"
		log.Info("Transition target missing", zap.Error(err))
	case errors.Is(err, models.ErrConflict):
		outcome = "conflict"
		log.Warn("Transition conflicted", zap.Error(err))
	default:
		log.Error("Transition failed", zap.Error(err))
	}
	transitionsTotal.WithLabelValues(string(kind), outcome).Inc()
}

// afterCommit runs once the transition is durable. Nothing here can undo it.
func (s *gameProgressionServiceImpl) afterCommit(ctx context.Context, log *zap.Logger, kind models.TransitionKind, fromNodeID *int64, save *models.GameSave) {
	transitionsTotal.WithLabelValues(string(kind), "ok").Inc()
	log.Debug("Transition committed", zap.Int64("saveID", save.ID), zap.Int64("toNodeID", save.CurrentStoryNodeID))

	if s.publisher == nil {
		return
	}
	event := models.GameProgressEvent{
		EventID:    uuid.New(),
		SaveID:     save.ID,
		UserID:     save.UserID,
		Kind:       kind,
		FromNodeID: fromNodeID,
		ToNodeID:   save.CurrentStoryNodeID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishProgress(context.WithoutCancel(ctx), event); err != nil {
		progressPublishFailuresTotal.Inc()
		log.Error("Failed to publish progress event", zap.Stringer("eventID", event.EventID), zap.Error(err))
	}
}
