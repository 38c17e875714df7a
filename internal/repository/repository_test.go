package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/socialverse/internal/model"
	"github.com/d60-Lab/socialverse/internal/testutil"
)

func seedUser(t *testing.T, repo UserRepository, name string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.NewString(), Username: name, PasswordHash: "h"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, repo, "alice")

	err := repo.Create(ctx, &model.User{ID: uuid.NewString(), Username: "alice", PasswordHash: "h"})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	exists, err := repo.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.True(t, IsNotFound(err))
}

func TestUserLookup(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	a := seedUser(t, repo, "alice")
	b := seedUser(t, repo, "bob")

	got, err := NewUserLookup(db).LookupUsers(context.Background(), []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "alice", got[a.ID].Username)
	assert.Equal(t, "bob", got[b.ID].Username)
	_, ok := got["missing"]
	assert.False(t, ok)
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	author := seedUser(t, NewUserRepository(db), "alice")
	repo := NewPostRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		p := &model.Post{
			ID:        uuid.NewString(),
			AuthorID:  author.ID,
			Content:   fmt.Sprintf("post %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, p))
	}

	posts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "post 2", posts[0].Content)
	assert.Equal(t, "post 1", posts[1].Content)
	assert.Equal(t, "post 0", posts[2].Content)
}

func TestPostRepository_AppendCommentKeepsOrder(t *testing.T) {
	db := testutil.NewDB(t)
	author := seedUser(t, NewUserRepository(db), "alice")
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &model.Post{ID: uuid.NewString(), AuthorID: author.ID, Content: "hello"}
	require.NoError(t, repo.Create(ctx, post))

	const n = 20
	for i := 0; i < n; i++ {
		c := &model.Comment{
			ID:        uuid.NewString(),
			PostID:    post.ID,
			AuthorID:  author.ID,
			Content:   fmt.Sprintf("c%02d", i),
			CreatedAt: time.Now(),
		}
		require.NoError(t, repo.AppendComment(ctx, c))
		assert.NotZero(t, c.Seq)
	}

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, n)
	for i, c := range got.Comments {
		assert.Equal(t, fmt.Sprintf("c%02d", i), c.Content)
	}

	ok, err := repo.Exists(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.True(t, IsNotFound(err))
}
