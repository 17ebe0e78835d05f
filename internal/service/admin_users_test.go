package service

import (
	"context"
	"testing"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserHashesPassword(t *testing.T) {
	store := newFakeStore()
	svc := NewAdminUserService(store, testLogger())

	user, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "s3cret-pass", []string{"USER"})
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
	assert.Equal(t, []models.Role{models.RoleUser}, user.Roles)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", "alice@example.com")
	svc := NewAdminUserService(store, testLogger())

	_, err := svc.CreateUser(context.Background(), "alice", "other@example.com", "s3cret-pass", []string{"USER"})
	require.ErrorIs(t, err, models.ErrUserAlreadyExists)
}

func TestCreateUserRoleValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewAdminUserService(store, testLogger())

	_, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "s3cret-pass", nil)
	require.ErrorIs(t, err, models.ErrRolesEmpty)

	_, err = svc.CreateUser(context.Background(), "alice", "alice@example.com", "s3cret-pass", []string{"SUPERUSER"})
	require.ErrorIs(t, err, models.ErrRoleNotFound)

	// Duplicate names collapse to one role.
	user, err := svc.CreateUser(context.Background(), "alice", "alice@example.com", "s3cret-pass", []string{"ADMIN", "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleAdmin}, user.Roles)
}

func TestAddRole(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "alice@example.com")
	svc := NewAdminUserService(store, testLogger())

	require.NoError(t, svc.AddRole(context.Background(), alice.ID, "ADMIN"))
	user, err := store.FindUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.True(t, user.HasRole(models.RoleAdmin))
	assert.True(t, user.HasRole(models.RoleUser))

	// Granting an already-held role changes nothing.
	require.NoError(t, svc.AddRole(context.Background(), alice.ID, "ADMIN"))
	user, err = store.FindUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, user.Roles, 2)

	err = svc.AddRole(context.Background(), alice.ID, "SUPERUSER")
	assert.ErrorIs(t, err, models.ErrRoleNotFound)

	err = svc.AddRole(context.Background(), 99, "ADMIN")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestRemoveRole(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "alice@example.com")
	svc := NewAdminUserService(store, testLogger())
	require.NoError(t, svc.AddRole(context.Background(), alice.ID, "ADMIN"))

	require.NoError(t, svc.RemoveRole(context.Background(), alice.ID, "ADMIN"))
	user, err := store.FindUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.False(t, user.HasRole(models.RoleAdmin))
	assert.True(t, user.HasRole(models.RoleUser))
}

func TestUpdateRoles(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "alice@example.com")
	svc := NewAdminUserService(store, testLogger())

	require.NoError(t, svc.UpdateRoles(context.Background(), alice.ID, []string{"ADMIN"}))
	user, err := store.FindUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleAdmin}, user.Roles)

	err = svc.UpdateRoles(context.Background(), alice.ID, nil)
	assert.ErrorIs(t, err, models.ErrRolesEmpty)

	err = svc.UpdateRoles(context.Background(), 99, []string{"USER"})
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	store := newFakeStore()
	alice := store.addUser("alice", "alice@example.com")
	svc := NewAdminUserService(store, testLogger())

	require.NoError(t, svc.DeleteUser(context.Background(), alice.ID))
	err := svc.DeleteUser(context.Background(), alice.ID)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
