package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/favtube/internal/domain"
	"github.com/MrSnakeDoc/favtube/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favtube/internal/logger"
	"github.com/MrSnakeDoc/favtube/internal/store"
	"github.com/MrSnakeDoc/favtube/internal/store/memory"
)

const validBody = `{
	"title": "Go Concurrency Patterns",
	"description": "Rob Pike at Google I/O",
	"thumbnailUrl": "https://i.ytimg.com/vi/f6kdp27TYZs/hqdefault.jpg",
	"youtuberName": "Google for Developers"
}`

// brokenStore fails (or panics) on every call.
type brokenStore struct {
	err   error
	panic bool
}

func (b *brokenStore) fail() error {
	if b.panic {
		panic(b.err)
	}
	return b.err
}

func (b *brokenStore) List(context.Context) ([]domain.Video, error) { return nil, b.fail() }
func (b *brokenStore) Get(context.Context, primitive.ObjectID) (*domain.Video, error) {
	return nil, b.fail()
}
func (b *brokenStore) Insert(context.Context, *domain.Video) (*domain.Video, error) {
	return nil, b.fail()
}
func (b *brokenStore) Update(context.Context, primitive.ObjectID, domain.VideoPatch) (*domain.Video, error) {
	return nil, b.fail()
}
func (b *brokenStore) Delete(context.Context, primitive.ObjectID) (*domain.Video, error) {
	return nil, b.fail()
}
func (b *brokenStore) Ping(context.Context) error  { return b.fail() }
func (b *brokenStore) Close(context.Context) error { return nil }

func newDeps(s store.Store, log logger.Logger) deps.Deps {
	return deps.Deps{
		Logger:      log,
		StartTime:   time.Now(),
		Store:       s,
		StoreDriver: "memory",
		StreamDelay: time.Millisecond,
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func create(t *testing.T, h http.Handler) domain.Video {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/", validBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var v domain.Video
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.False(t, v.ID.IsZero())
	return v
}

func TestListEmpty(t *testing.T) {
	h := NewRouter(newDeps(memory.New(), logger.NewNop()))

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, PoweredBy, rec.Header().Get("X-Powered-By"))
}

func TestCreateThenGet(t *testing.T) {
	h := NewRouter(newDeps(memory.New(), logger.NewNop()))
	created := create(t, h)
	assert.Equal(t, "Go Concurrency Patterns", created.Title)
	assert.False(t, created.Watched)

	rec := do(t, h, http.MethodGet, "/"+created.ID.Hex(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, created.ID.Hex(), raw["_id"])
	assert.Equal(t, false, raw["watched"])

	rec = do(t, h, http.MethodGet, "/", "")
	var all []domain.Video
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, created, all[0])
}

func TestCreateDropsEmptyThumbnail(t *testing.T) {
	h := NewRouter(newDeps(memory.New(), logger.NewNop()))

	rec := do(t, h, http.MethodPost, "/", `{"title":"t","description":"d","youtuberName":"y","thumbnailUrl":""}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "thumbnailUrl")
}

func TestCreateValidationFailure(t *testing.T) {
	h := NewRouter(newDeps(memory.New(), logger.NewNop()))

	rec := do(t, h, http.MethodPost, "/", `{"description":"d","youtuberName":"y"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var msg string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg), "body must be a JSON string")
	assert.Equal(t, "FavYoutubeVideo validation failed: title: Path `title` is required.", msg)
}

func TestMalformedBodyIsAppError(t *testing.T) {
	h := NewRouter(newDeps(memory.New(), logger.NewNop()))

	for _, body := range []string{`{"title":`, `[1,2]`, `null`} {
		rec := do(t, h, http.MethodPost, "/", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, body)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "App error: "), rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	}
}

func TestInvalidAndMissingID(t *testing.T) {
	h := NewRouter(newDeps(memory.New(), logger.NewNop()))
	missing := domain.NewID().Hex()

	tests := []struct {
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{http.MethodGet, "/not-an-id", "", http.StatusBadRequest, `"Invalid ID"`},
		{http.MethodGet, "/d/not-an-id", "", http.StatusBadRequest, `"Invalid ID"`},
		{http.MethodPatch, "/not-an-id", `{}`, http.StatusBadRequest, `"Invalid ID"`},
		{http.MethodDelete, "/not-an-id", "", http.StatusBadRequest, `"Invalid ID"`},
		{http.MethodGet, "/" + missing, "", http.StatusNotFound, `"Document not found"`},
		{http.MethodGet, "/d/" + missing, "", http.StatusNotFound, `"Document not found"`},
		// Existence is checked before the body is parsed.
		{http.MethodPatch, "/" + missing, `{"title":`, http.StatusNotFound, `"Document not found"`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestPatch(t *testing.T) {
	h := NewRouter(newDeps(memory.New(), logger.NewNop()))
	created := create(t, h)
	path := "/" + created.ID.Hex()

	t.Run("partial update", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, path, `{"watched":true}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.Video
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Watched)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Description, got.Description)
		assert.Equal(t, created.YoutuberName, got.YoutuberName)
		assert.Equal(t, created.ThumbnailURL, got.ThumbnailURL)
	})

	t.Run("empty thumbnail leaves the stored one", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, path, `{"thumbnailUrl":"","title":"Renamed"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var got domain.Video
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, created.ThumbnailURL, got.ThumbnailURL)
		assert.NotEmpty(t, got.ThumbnailURL)
	})

	t.Run("empty patch returns the record", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, path, `{}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), created.ID.Hex())
	})

	t.Run("invalid field", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, path, `{"title":""}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var msg string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
		assert.Contains(t, msg, "validation failed")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, path, `{"title":`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "App error: "))
	})
}

func TestDelete(t *testing.T) {
	h := NewRouter(newDeps(memory.New(), logger.NewNop()))
	created := create(t, h)
	path := "/" + created.ID.Hex()

	rec := do(t, h, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Video
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created, got)

	rec = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `null`, rec.Body.String())

	rec = do(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoreFailures(t *testing.T) {
	id := domain.NewID().Hex()

	t.Run("read failure is an app error", func(t *testing.T) {
		h := NewRouter(newDeps(&brokenStore{err: errors.New("connection reset")}, logger.NewNop()))
		for _, path := range []string{"/", "/" + id, "/d/" + id} {
			rec := do(t, h, http.MethodGet, path, "")
			assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
			assert.Equal(t, "App error: connection reset", rec.Body.String(), path)
		}
	})

	t.Run("write failure is a JSON string", func(t *testing.T) {
		h := NewRouter(newDeps(&brokenStore{err: errors.New("not primary")}, logger.NewNop()))
		for _, tt := range []struct{ method, path, body string }{
			{http.MethodPost, "/", validBody},
			{http.MethodDelete, "/" + id, ""},
		} {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `"not primary"`, rec.Body.String())
		}
	})

	t.Run("panic is recovered", func(t *testing.T) {
		h := NewRouter(newDeps(&brokenStore{err: errors.New("driver bug"), panic: true}, logger.NewNop()))
		rec := do(t, h, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "App error: driver bug", rec.Body.String())
	})
}

func TestStreamDescription(t *testing.T) {
	s := memory.New()
	v, err := s.Insert(context.Background(), &domain.Video{Title: "t", Description: "hé", YoutuberName: "y"})
	require.NoError(t, err)

	d := newDeps(s, logger.NewNop())
	d.StreamDelay = 40 * time.Millisecond
	srv := httptest.NewServer(NewRouter(d))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/d/" + v.ID.Hex())
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=UTF-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, PoweredBy, resp.Header.Get("X-Powered-By"))

	first := make([]byte, 1)
	_, err = io.ReadFull(resp.Body, first)
	require.NoError(t, err)
	gotFirst := time.Now()

	rest, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "hé", string(first)+string(rest))
	assert.GreaterOrEqual(t, time.Since(gotFirst), 20*time.Millisecond, "chunks must be paced")
}

func TestStreamSendsOneChunkPerCharacter(t *testing.T) {
	s := memory.New()
	v, err := s.Insert(context.Background(), &domain.Video{Title: "t", Description: "hi", YoutuberName: "y"})
	require.NoError(t, err)

	const delay = 60 * time.Millisecond
	d := newDeps(s, logger.NewNop())
	d.StreamDelay = delay
	srv := httptest.NewServer(NewRouter(d))
	defer srv.Close()

	start := time.Now()
	resp, err := http.Get(srv.URL + "/d/" + v.ID.Hex())
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var (
		text    []byte
		arrived []time.Duration
	)
	for {
		b := make([]byte, 1)
		n, err := resp.Body.Read(b)
		if n > 0 {
			text = append(text, b[0])
			arrived = append(arrived, time.Since(start))
		}
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	require.Equal(t, "hi", string(text))
	require.Len(t, arrived, 2)
	// "h" is flushed before the pause, "i" after it.
	assert.Less(t, arrived[0], delay, "first character must not wait for the delay")
	assert.GreaterOrEqual(t, arrived[1]-arrived[0], delay/2, "characters must arrive as separate chunks")
	// No pause after the last character.
	assert.Less(t, time.Since(start), 3*delay)
}

func TestStreamAbortIsLogged(t *testing.T) {
	s := memory.New()
	v, err := s.Insert(context.Background(), &domain.Video{
		Title:        "t",
		Description:  strings.Repeat("a long description ", 20),
		YoutuberName: "y",
	})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	d := newDeps(s, logger.FromZap(zap.New(core)))
	d.StreamDelay = 10 * time.Millisecond
	srv := httptest.NewServer(NewRouter(d))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/d/"+v.ID.Hex(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	buf := make([]byte, 3)
	_, err = io.ReadFull(resp.Body, buf)
	require.NoError(t, err)
	cancel()
	_ = resp.Body.Close()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("stream aborted").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("stream aborted").All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, v.ID.Hex(), fields["id"])
	sent, ok := fields["sent"].(int64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, sent, int64(3))
	assert.Less(t, sent, int64(len(v.Description)))
}

func TestFallbackRouter(t *testing.T) {
	h := NewFallbackRouter(errors.New("server selection timeout"), logger.NewNop())

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodPost, "/"},
		{http.MethodGet, "/65f1c2a9e4b0a1b2c3d4e5f6"},
		{http.MethodDelete, "/d/whatever/else"},
		{http.MethodGet, "/readyz"},
	} {
		rec := do(t, h, tt.method, tt.path, "")
		assert.Equal(t, http.StatusOK, rec.Code, tt.path)
		assert.Equal(t, "Failed to connect mongodb: server selection timeout", rec.Body.String())
		assert.Equal(t, PoweredBy, rec.Header().Get("X-Powered-By"))
	}
}

func TestProbes(t *testing.T) {
	t.Run("healthy store", func(t *testing.T) {
		h := NewRouter(newDeps(memory.New(), logger.NewNop()))

		rec := do(t, h, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)

		rec = do(t, h, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ready":true}`, rec.Body.String())

		rec = do(t, h, http.MethodGet, "/infra", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"mode":"operational","components":{"store":{"ok":true,"driver":"memory","videos_stored":0}}}`, rec.Body.String())
	})

	t.Run("unreachable store", func(t *testing.T) {
		h := NewRouter(newDeps(&brokenStore{err: errors.New("i/o timeout")}, logger.NewNop()))

		rec := do(t, h, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"ready":false,"error":"i/o timeout"}`, rec.Body.String())

		rec = do(t, h, http.MethodGet, "/infra", "")
		assert.Contains(t, rec.Body.String(), `"mode":"degraded"`)

		rec = do(t, h, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestUnknownRoute(t *testing.T) {
	h := NewRouter(newDeps(memory.New(), logger.NewNop()))
	rec := do(t, h, http.MethodGet, "/a/b/c", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
