package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"branching-novel/internal/dto"
	"branching-novel/internal/models"
	"branching-novel/internal/service/mocks"
)

func setupRouter(t *testing.T) (*gin.Engine, *mocks.GameProgressionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := new(mocks.GameProgressionService)
	r := gin.New()
	NewGameHandler(svc, zap.NewNop()).RegisterRoutes(r)
	t.Cleanup(func() { svc.AssertExpectations(t) })
	return r, svc
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStartGame(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("StartGame", mock.Anything, int64(3), int64(1), "").
			Return(&dto.GameSaveDto{ID: 11, PlayerCharacterID: 3, SaveName: "Autosave", CurrentStoryNodeID: 1}, nil)

		w := doJSON(r, http.MethodPost, "/api/game/start", map[string]any{"playerCharacterId": 3, "storyNodeId": 1})

		assert.Equal(t, http.StatusCreated, w.Code)
		var got dto.GameSaveDto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(11), got.ID)
		assert.Equal(t, int64(1), got.CurrentStoryNodeID)
	})

	t.Run("missing player is a validation error", func(t *testing.T) {
		r, _ := setupRouter(t)

		w := doJSON(r, http.MethodPost, "/api/game/start", map[string]any{"storyNodeId": 1})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.NotEmpty(t, body.Fields)
	})

	t.Run("malformed json", func(t *testing.T) {
		r, _ := setupRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/api/game/start", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown node", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("StartGame", mock.Anything, int64(3), int64(404), "").
			Return(nil, fmt.Errorf("%w: story node 404", models.ErrInvalidNode))

		w := doJSON(r, http.MethodPost, "/api/game/start", map[string]any{"playerCharacterId": 3, "storyNodeId": 404})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "that action isn't available", decodeError(t, w).Message)
	})
}

func TestMakeChoice(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("MakeChoiceForUser", mock.Anything, int64(3), int64(10)).
			Return(&dto.GameState{PlayerCharacterID: 3, CurrentStoryNodeID: 2, SaveID: 11}, nil)

		w := doJSON(r, http.MethodPost, "/api/game/choice", map[string]any{"playerCharacterId": 3, "choiceId": 10})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"playerCharacterId":3,"currentStoryNodeId":2,"saveId":11}`, w.Body.String())
	})

	t.Run("invalid choice", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("MakeChoiceForUser", mock.Anything, int64(3), int64(10)).
			Return(nil, fmt.Errorf("%w: choice 10", models.ErrInvalidChoice))

		w := doJSON(r, http.MethodPost, "/api/game/choice", map[string]any{"playerCharacterId": 3, "choiceId": 10})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "that action isn't available", decodeError(t, w).Message)
	})

	t.Run("conflict asks to retry", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("MakeChoice", mock.Anything, int64(11), int64(10)).
			Return(nil, fmt.Errorf("%w: MakeChoice", models.ErrConflict))

		w := doJSON(r, http.MethodPost, "/api/game/saves/11/choice", map[string]any{"choiceId": 10})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "please retry", decodeError(t, w).Message)
	})
}

func TestMoves(t *testing.T) {
	r, svc := setupRouter(t)
	state := &dto.GameState{PlayerCharacterID: 3, CurrentStoryNodeID: 2, SaveID: 11}
	svc.On("MoveToNextNode", mock.Anything, int64(3), int64(2)).Return(state, nil)
	svc.On("MoveToPreviousNode", mock.Anything, int64(3), int64(1)).Return(state, nil)
	svc.On("SaveProgress", mock.Anything, int64(3), int64(2)).Return(state, nil)

	w := doJSON(r, http.MethodPost, "/api/game/next", map[string]any{"playerCharacterId": 3, "currentStoryNodeId": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/game/previous", map[string]any{"playerCharacterId": 3, "previousStoryNodeId": 1})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/game/save", map[string]any{"playerCharacterId": 3, "currentStoryNodeId": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/game/previous", map[string]any{"playerCharacterId": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameStateAndSaves(t *testing.T) {
	t.Run("state not found", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("GetGameState", mock.Anything, int64(3)).Return(nil, fmt.Errorf("%w: game save", models.ErrNotFound))

		w := doJSON(r, http.MethodGet, "/api/game/state/3", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "that action isn't available", decodeError(t, w).Message)
	})

	t.Run("bad user id", func(t *testing.T) {
		r, _ := setupRouter(t)

		w := doJSON(r, http.MethodGet, "/api/game/state/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list saves", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("ListGameSaves", mock.Anything, int64(3)).Return([]dto.GameSaveDto{{ID: 11}, {ID: 12}}, nil)

		w := doJSON(r, http.MethodGet, "/api/game/saves?userId=3", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var got []dto.GameSaveDto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("list saves requires user", func(t *testing.T) {
		r, _ := setupRouter(t)

		w := doJSON(r, http.MethodGet, "/api/game/saves", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("load game", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("LoadGame", mock.Anything, int64(11)).Return(&dto.GameView{
			Save: dto.GameSaveDto{ID: 11, CurrentStoryNodeID: 2},
			Node: dto.NodeView{Node: dto.StoryNodeDto{ID: 2, Title: "Hallway"}, Choices: []dto.ChoiceDto{}, Dialogues: []dto.DialogueDto{}, IsEnding: true},
		}, nil)

		w := doJSON(r, http.MethodGet, "/api/game/saves/11", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"isEnding":true`)
	})

	t.Run("delete existing", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("DeleteGameSave", mock.Anything, int64(11)).Return(&dto.GameSaveDto{ID: 11}, nil)

		w := doJSON(r, http.MethodDelete, "/api/game/saves/11", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("DeleteGameSave", mock.Anything, int64(404)).Return(nil, nil)

		w := doJSON(r, http.MethodDelete, "/api/game/saves/404", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestNodeRoutes(t *testing.T) {
	t.Run("choices", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("GetChoicesForNode", mock.Anything, int64(1)).
			Return([]dto.ChoiceDto{{ID: 10, SourceNodeID: 1, TargetNodeID: 2, Label: "Open the door"}}, nil)

		w := doJSON(r, http.MethodGet, "/api/story-nodes/1/choices", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":10,"sourceNodeId":1,"targetNodeId":2,"label":"Open the door"}]`, w.Body.String())
	})

	t.Run("current node", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("GetCurrentNode", mock.Anything, int64(3)).
			Return(&dto.NodeView{Node: dto.StoryNodeDto{ID: 1, Title: "Start"}}, nil)

		w := doJSON(r, http.MethodGet, "/api/game/current-node/3", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unexpected error is internal", func(t *testing.T) {
		r, svc := setupRouter(t)
		svc.On("GetChoicesForNode", mock.Anything, int64(1)).Return(nil, fmt.Errorf("pool closed"))

		w := doJSON(r, http.MethodGet, "/api/story-nodes/1/choices", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
