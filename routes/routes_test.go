package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"board-api/cache"
	"board-api/config"
	"board-api/database"
	"board-api/repositories"
	"board-api/services"
	"board-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "Str0ng!Pass"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	utils.RegisterValidators()

	db, err := database.OpenInMemory()
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpiration:      time.Hour,
		FrontendURL:        "http://localhost:5173",
		AdminToken:         "admin-token",
		RateLimitPerMinute: 1000,
		RateLimitBurst:     1000,
		Cache:              config.CacheConfig{TTL: time.Minute},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := cache.NewMemoryStore(256)
	listing := services.NewPostListingCache(store, repositories.NewPostRepository(db), repositories.NewLikeRepository(db), cfg.Cache.TTL, logger)

	r := NewRouter(cfg, logger)
	SetupRoutes(r, db, store, listing, cfg, services.NewEmailService(cfg, logger), logger)
	return r
}

func doRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// registerAndLogin creates an account and returns its id and access token.
func registerAndLogin(t *testing.T, r http.Handler, username string) (uint, string) {
	t.Helper()
	email := username + "@example.com"

	w := doRequest(r, http.MethodPost, "/api/auth/register", gin.H{"email": email, "username": username, "password": testPassword}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(r, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.User.ID, resp.AccessToken
}

func createPost(t *testing.T, r http.Handler, token, title string) uint {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/posts", gin.H{"title": title, "content": "content"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post struct {
		ID uint `json:"id"`
	}
	decode(t, w, &post)
	return post.ID
}

type listingPage struct {
	Data []struct {
		ID           uint   `json:"id"`
		Title        string `json:"title"`
		CommentCount int64  `json:"commentCount"`
		LikeCount    int64  `json:"likeCount"`
		IsLiked      bool   `json:"isLiked"`
	} `json:"data"`
	Meta struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalPages int   `json:"totalPages"`
	} `json:"meta"`
}

func TestPostListingFlow(t *testing.T) {
	r := setupRouter(t)
	_, aliceToken := registerAndLogin(t, r, "alice")
	_, bobToken := registerAndLogin(t, r, "bob")
	postID := createPost(t, r, aliceToken, "Hello board")

	first := doRequest(r, http.MethodGet, "/api/posts?page=1&limit=10", nil, bobToken)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := doRequest(r, http.MethodGet, "/api/posts?page=1&limit=10", nil, bobToken)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))

	w := doRequest(r, http.MethodGet, "/api/cache/stats", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	var stats cache.Stats
	decode(t, w, &stats)
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 1, HitRate: "50.00"}, stats)

	w = doRequest(r, http.MethodPost, "/api/posts/"+itoa(postID)+"/comments", gin.H{"content": "Nice post"}, bobToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(r, http.MethodPost, "/api/posts/"+itoa(postID)+"/like/toggle", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"liked":true,"likeCount":1}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/api/posts", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	var page listingPage
	decode(t, w, &page)
	require.Len(t, page.Data, 1)
	assert.EqualValues(t, 1, page.Data[0].CommentCount)
	assert.EqualValues(t, 1, page.Data[0].LikeCount)
	assert.True(t, page.Data[0].IsLiked)
	assert.EqualValues(t, 1, page.Meta.Total)
	assert.Equal(t, 10, page.Meta.Limit)

	w = doRequest(r, http.MethodGet, "/api/posts/"+itoa(postID)+"/comments", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nice post")
}

func TestOwnershipOnDelete(t *testing.T) {
	r := setupRouter(t)
	_, aliceToken := registerAndLogin(t, r, "alice")
	_, malloryToken := registerAndLogin(t, r, "mallory")
	postID := createPost(t, r, aliceToken, "Mine")

	w := doRequest(r, http.MethodDelete, "/api/posts/"+itoa(postID), nil, malloryToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodGet, "/api/posts/"+itoa(postID), nil, aliceToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/posts/"+itoa(postID), nil, aliceToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doRequest(r, http.MethodGet, "/api/posts/"+itoa(postID), nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestValidation(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/auth/register", gin.H{"email": "bad", "username": "a", "password": "weak"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp utils.ValidationErrorResponse
	decode(t, w, &resp)
	fields := map[string]bool{}
	for _, e := range resp.Errors {
		fields[e.Field] = true
	}
	assert.Equal(t, map[string]bool{"email": true, "username": true, "password": true}, fields)

	_, token := registerAndLogin(t, r, "alice")
	w = doRequest(r, http.MethodPost, "/api/posts", gin.H{"title": strings.Repeat("x", 51), "content": "c"}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, http.MethodGet, "/api/posts?page=0", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, http.MethodGet, "/api/posts?page=922337203685477582", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, http.MethodGet, "/api/posts/abc", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthentication(t *testing.T) {
	r := setupRouter(t)
	_, token := registerAndLogin(t, r, "alice")

	w := doRequest(r, http.MethodGet, "/api/posts", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/api/posts", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "password")

	unknown := doRequest(r, http.MethodPost, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": testPassword}, "")
	wrong := doRequest(r, http.MethodPost, "/api/auth/login", gin.H{"email": "alice@example.com", "password": "Wr0ng!Pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())

	w = doRequest(r, http.MethodPost, "/api/auth/register", gin.H{"email": "alice@example.com", "username": "alice2", "password": testPassword}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPublicUserRoutes(t *testing.T) {
	r := setupRouter(t)
	aliceID, token := registerAndLogin(t, r, "alice")
	createPost(t, r, token, "First")
	createPost(t, r, token, "Second")

	w := doRequest(r, http.MethodGet, "/api/users/"+itoa(aliceID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = doRequest(r, http.MethodGet, "/api/users/"+itoa(aliceID)+"/posts?limit=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page listingPage
	decode(t, w, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Second", page.Data[0].Title)
	assert.Equal(t, 2, page.Meta.TotalPages)

	w = doRequest(r, http.MethodGet, "/api/users/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeEndpoints(t *testing.T) {
	r := setupRouter(t)
	_, token := registerAndLogin(t, r, "alice")
	postID := createPost(t, r, token, "Likeable")
	path := "/api/posts/" + itoa(postID) + "/like"

	w := doRequest(r, http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"liked":true,"likeCount":1}`, w.Body.String())

	w = doRequest(r, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":false,"likeCount":0}`, w.Body.String())

	w = doRequest(r, http.MethodPost, "/api/posts/9999/like", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCacheStatsReset(t *testing.T) {
	r := setupRouter(t)
	_, token := registerAndLogin(t, r, "alice")
	doRequest(r, http.MethodGet, "/api/posts", nil, token)

	w := doRequest(r, http.MethodDelete, "/api/cache/stats", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/cache/stats", nil)
	req.Header.Set("X-Admin-Token", "admin-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	w = doRequest(r, http.MethodGet, "/api/cache/stats", nil, token)
	assert.JSONEq(t, `{"hits":0,"misses":0,"hitRate":"0.00"}`, w.Body.String())
}

func TestInfrastructureEndpoints(t *testing.T) {
	r := setupRouter(t)
	_, token := registerAndLogin(t, r, "alice")
	doRequest(r, http.MethodGet, "/api/posts", nil, token)
	doRequest(r, http.MethodGet, "/api/posts", nil, token)

	w := doRequest(r, http.MethodGet, "/ping", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = doRequest(r, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "board_cache_hits_total 1")
	assert.Contains(t, w.Body.String(), "board_cache_misses_total 1")

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
