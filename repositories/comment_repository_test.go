package repositories

import (
	"context"
	"testing"
	"time"

	"board-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentPageByPostOldestFirst(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewCommentRepository(db)
	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "post", time.Now())
	other := createPost(t, db, alice.ID, "other", time.Now())

	base := time.Now().Add(-time.Hour)
	for i, content := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		c := models.Comment{Content: content, PostID: post.ID, AuthorID: alice.ID, CreatedAt: at, UpdatedAt: at}
		require.NoError(t, repo.Create(ctx, &c))
	}
	require.NoError(t, repo.Create(ctx, &models.Comment{Content: "elsewhere", PostID: other.ID, AuthorID: alice.ID}))

	comments, total, err := repo.PageByPost(ctx, post.ID, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "alice", comments[0].Author.Username)
}

func TestCommentUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewCommentRepository(db)
	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "post", time.Now())

	c := models.Comment{Content: "draft", PostID: post.ID, AuthorID: alice.ID}
	require.NoError(t, repo.Create(ctx, &c))
	require.NoError(t, repo.UpdateContent(ctx, &c, "final"))

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", found.Content)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), gorm.ErrRecordNotFound)
}

func TestLikeFindDeleteCount(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewLikeRepository(db)
	alice := createUser(t, db, "alice")
	post := createPost(t, db, alice.ID, "post", time.Now())

	_, err := repo.Find(ctx, post.ID, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Create(ctx, &models.Like{PostID: post.ID, UserID: alice.ID}))
	n, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	removed, err := repo.Delete(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(ctx, &models.User{Email: "a@example.com", Username: "alice", Password: "hash"}))

	exists, err := repo.ExistsByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)

	user, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
