package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/platform/postgres"
	"github.com/taskpulse/taskpulse-api/internal/store"
	"github.com/taskpulse/taskpulse-api/internal/testdb"
)

// newStores connects to the test database and returns fresh stores over
// a clean schema. The whole test skips when DATABASE_URL is unset.
func newStores(t *testing.T) (store.UserStore, store.TaskStore) {
	t.Helper()

	db := testdb.MustConnect(t)
	testdb.MigrateAndClean(t, db)
	return postgres.NewPostgresUserStore(db, nil), postgres.NewPostgresTaskStore(db, nil)
}

func createUser(t *testing.T, users store.UserStore, username, email string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(username, email, "integration-pw")
	require.NoError(t, err)
	user.HashedPassword = "$2b$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	user.Password = ""
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUserStoreRoundTrip(t *testing.T) {
	users, _ := newStores(t)
	ctx := context.Background()

	created := createUser(t, users, "alice1", "alice@example.com")
	require.NotZero(t, created.ID)

	byID, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice1", byID.Username)

	byEmail, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = users.GetByID(ctx, created.ID+999)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStoreUniqueConstraints(t *testing.T) {
	users, _ := newStores(t)
	createUser(t, users, "alice1", "alice@example.com")

	dup, err := domain.NewUser("alice2", "alice@example.com", "integration-pw")
	require.NoError(t, err)
	dup.HashedPassword = "x-hash"
	assert.ErrorIs(t, users.Create(context.Background(), dup), store.ErrEmailExists)

	dup2, err := domain.NewUser("alice1", "other@example.com", "integration-pw")
	require.NoError(t, err)
	dup2.HashedPassword = "x-hash"
	assert.ErrorIs(t, users.Create(context.Background(), dup2), store.ErrUsernameExists)
}

func TestTaskStoreCRUD(t *testing.T) {
	users, tasks := newStores(t)
	ctx := context.Background()

	owner := createUser(t, users, "owner1", "owner@example.com")
	other := createUser(t, users, "other1", "other@example.com")

	due := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	task, err := domain.NewTask(owner.ID, "Write docs", "long form notes", "", "high", &due)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, task))
	require.NotZero(t, task.ID)

	// Defaults applied on the way in.
	assert.Equal(t, domain.TaskStatusPending, task.Status)

	fetched, err := tasks.FindOne(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write docs", fetched.Title)
	assert.Equal(t, domain.TaskPriorityHigh, fetched.Priority)
	require.NotNil(t, fetched.DueDate)
	assert.WithinDuration(t, due, *fetched.DueDate, time.Second)

	// Ownership scoping: the other user cannot see it.
	_, err = tasks.FindOne(ctx, task.ID, other.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	all, err := tasks.FindAll(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := tasks.FindAll(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	title := "renamed"
	status := domain.TaskStatusCompleted
	updated, err := tasks.Update(ctx, task.ID, owner.ID, domain.TaskUpdate{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)

	// Update by the wrong owner fails and changes nothing.
	_, err = tasks.Update(ctx, task.ID, other.ID, domain.TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	assert.ErrorIs(t, tasks.Delete(ctx, task.ID, other.ID), store.ErrTaskNotFound)
	require.NoError(t, tasks.Delete(ctx, task.ID, owner.ID))
	_, err = tasks.FindOne(ctx, task.ID, owner.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskCascadeOnUserDelete(t *testing.T) {
	users, tasks := newStores(t)
	ctx := context.Background()

	owner := createUser(t, users, "owner1", "owner@example.com")
	task, err := domain.NewTask(owner.ID, "doomed", "", "", "", nil)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, task))

	db := testdb.MustConnect(t)
	_, err = db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, owner.ID)
	require.NoError(t, err)

	_, err = tasks.FindOne(ctx, task.ID, owner.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
