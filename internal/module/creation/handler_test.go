package creation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quickai/server/internal/utils/middleware"
	"github.com/quickai/server/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryRepository is an in-memory Repository for handler tests.
type memoryRepository struct {
	items   map[int64]*Creation
	listErr error
}

func newMemoryRepository(items ...*Creation) *memoryRepository {
	r := &memoryRepository{items: map[int64]*Creation{}}
	for _, c := range items {
		r.items[c.ID] = c
	}
	return r
}

func (r *memoryRepository) Create(ctx context.Context, c *Creation) error {
	c.ID = int64(len(r.items) + 1)
	r.items[c.ID] = c
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id int64) (*Creation, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, ErrCreationNotFound
	}
	return c, nil
}

func (r *memoryRepository) ListByUser(ctx context.Context, userID string) ([]*Creation, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*Creation
	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepository) ListPublished(ctx context.Context, page *pagination.Pagination) ([]*Creation, error) {
	var out []*Creation
	for _, c := range r.items {
		if c.Publish {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepository) UpdateLikes(ctx context.Context, id int64, fn func(c *Creation) error) error {
	c, ok := r.items[id]
	if !ok {
		return ErrCreationNotFound
	}
	return fn(c)
}

func setupRouter(repo Repository, userID string) *gin.Engine {
	h := NewHandler(NewService(repo, zap.NewNop()), zap.NewNop())

	router := gin.New()
	group := router.Group("/api/user", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	h.RegisterRoutes(group)
	return router
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandler_GetUserCreations(t *testing.T) {
	t.Run("returns only the caller's creations", func(t *testing.T) {
		repo := newMemoryRepository(
			&Creation{ID: 1, UserID: "user_1", Type: "article"},
			&Creation{ID: 2, UserID: "user_2", Type: "image"},
		)
		w := httptest.NewRecorder()
		setupRouter(repo, "user_1").ServeHTTP(w, httptest.NewRequest("GET", "/api/user/get-user-creations", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Len(t, body["creations"], 1)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupRouter(newMemoryRepository(), "user_1").ServeHTTP(w, httptest.NewRequest("GET", "/api/user/get-user-creations", nil))

		assert.JSONEq(t, `{"success":true,"creations":[]}`, w.Body.String())
	})

	t.Run("store failure is a 500 without details", func(t *testing.T) {
		repo := newMemoryRepository()
		repo.listErr = errors.New("connection reset")
		w := httptest.NewRecorder()
		setupRouter(repo, "user_1").ServeHTTP(w, httptest.NewRequest("GET", "/api/user/get-user-creations", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestHandler_GetPublishedCreations(t *testing.T) {
	repo := newMemoryRepository(
		&Creation{ID: 1, UserID: "user_1", Publish: true},
		&Creation{ID: 2, UserID: "user_2", Publish: false},
	)
	w := httptest.NewRecorder()
	setupRouter(repo, "user_3").ServeHTTP(w, httptest.NewRequest("GET", "/api/user/get-published-creations", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["creations"], 1)
}

func TestHandler_ToggleLike(t *testing.T) {
	post := func(router *gin.Engine, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/user/toggle-like-creation", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	repo := newMemoryRepository(&Creation{ID: 4, UserID: "owner", Publish: true})
	router := setupRouter(repo, "fan")

	w := post(router, `{"id":4}`)
	assert.JSONEq(t, `{"success":true,"message":"Creation Liked"}`, w.Body.String())
	assert.True(t, repo.items[4].LikedBy("fan"))

	w = post(router, `{"id":4}`)
	assert.JSONEq(t, `{"success":true,"message":"Creation Unliked"}`, w.Body.String())
	assert.False(t, repo.items[4].LikedBy("fan"))

	w = post(router, `{"id":404}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Creation not found"}`, w.Body.String())

	w = post(router, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
