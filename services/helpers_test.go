package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"board-api/cache"
	"board-api/database"
	"board-api/models"
	"board-api/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	store    cache.Store
	listing  *PostListingCache
	posts    *PostService
	comments *CommentService
	likes    *LikeService
	users    *UserService
	auth     *AuthService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, cache.NewMemoryStore(128))
}

func newTestEnvWithStore(t *testing.T, store cache.Store) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	postRepo := repositories.NewPostRepository(db)
	likeRepo := repositories.NewLikeRepository(db)
	userRepo := repositories.NewUserRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	listing := NewPostListingCache(store, postRepo, likeRepo, time.Minute, discardLogger())
	posts := NewPostService(postRepo, likeRepo, listing)

	return &testEnv{
		db:       db,
		store:    store,
		listing:  listing,
		posts:    posts,
		comments: NewCommentService(commentRepo, postRepo, listing),
		likes:    NewLikeService(likeRepo, postRepo, listing),
		users:    NewUserService(userRepo, posts),
		auth:     NewAuthService(userRepo, "test-secret", time.Hour, nil, discardLogger()),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Email: username + "@example.com", Username: username, Password: "hash"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) post(t *testing.T, author *models.User, title string) *models.PostWithStats {
	t.Helper()
	post, err := e.posts.Create(context.Background(), author.ID, models.CreatePostRequest{Title: title, Content: "body"})
	require.NoError(t, err)
	return post
}

// countQueries counts every statement gorm sends to the database from now on.
func countQueries(t *testing.T, db *gorm.DB) *int64 {
	t.Helper()
	var n int64
	inc := func(*gorm.DB) { atomic.AddInt64(&n, 1) }
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:count_queries", inc))
	require.NoError(t, db.Callback().Row().After("gorm:row").Register("test:count_rows", inc))
	return &n
}

var errStoreDown = errors.New("store down")

// failingStore simulates an unreachable cache server.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error)              { return "", errStoreDown }
func (failingStore) Set(context.Context, string, string, time.Duration) error { return errStoreDown }
func (failingStore) Delete(context.Context, ...string) error                  { return errStoreDown }
func (failingStore) DeletePrefix(context.Context, string) (int, error)        { return 0, errStoreDown }
func (failingStore) Incr(context.Context, string) (int64, error)              { return 0, errStoreDown }
func (failingStore) GetInt(context.Context, string) (int64, error)            { return 0, errStoreDown }
func (failingStore) Ping(context.Context) error                               { return errStoreDown }
func (failingStore) Close() error                                             { return nil }
