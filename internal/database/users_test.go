package database

import (
	"context"
	"testing"

	"archiwum-zwojow/internal/auth"
	"archiwum-zwojow/internal/models"

	"github.com/stretchr/testify/require"
)

// Funkcja pomocnicza do tworzenia użytkowników w testach.
func createTestUser(t *testing.T, username string) *models.User {
	hashedPassword, err := auth.HashPassword("secretpassword")
	require.NoError(t, err)

	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     username,
		PasswordHash: hashedPassword,
		Emoji:        models.DefaultEmoji,
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func TestCreateUser(t *testing.T) {
	user := createTestUser(t, "create user test")

	require.Equal(t, "create user test", user.Username)
	require.Equal(t, models.DefaultEmoji, user.Emoji)
	require.False(t, user.IsAdmin)
	require.NotZero(t, user.ID)
	require.NotZero(t, user.CreatedAt)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	createTestUser(t, "duplicate user")

	_, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     "Duplicate User",
		PasswordHash: "hash",
		Emoji:        models.DefaultEmoji,
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestGetUserByUsername(t *testing.T) {
	created := createTestUser(t, "lookup user")

	foundUser, err := testStore.GetUserByUsername(context.Background(), "LOOKUP USER")
	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Equal(t, created.ID, foundUser.ID)
	require.NotEmpty(t, foundUser.PasswordHash)

	nonExistentUser, err := testStore.GetUserByUsername(context.Background(), "nonexistent")
	require.NoError(t, err)
	require.Nil(t, nonExistentUser)
}

func TestGetUserByID(t *testing.T) {
	created := createTestUser(t, "by id user")

	foundUser, err := testStore.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Equal(t, created.Username, foundUser.Username)

	missing, err := testStore.GetUserByID(context.Background(), 999999)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUserExists(t *testing.T) {
	createTestUser(t, "exists user")

	exists, err := testStore.UserExists(context.Background(), "EXISTS user")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = testStore.UserExists(context.Background(), "no such user")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestSetUserAdmin(t *testing.T) {
	user := createTestUser(t, "admin toggle user")

	ok, err := testStore.SetUserAdmin(context.Background(), user.ID, true)
	require.NoError(t, err)
	require.True(t, ok)

	promoted, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, promoted.IsAdmin)

	ok, err = testStore.SetUserAdmin(context.Background(), user.ID, false)
	require.NoError(t, err)
	require.True(t, ok)

	demoted, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, demoted.IsAdmin)

	ok, err = testStore.SetUserAdmin(context.Background(), 999999, true)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateUserProfile(t *testing.T) {
	user := createTestUser(t, "profile user")

	ok, err := testStore.UpdateUserProfile(context.Background(), UpdateProfileParams{
		ID:        user.ID,
		Email:     "profil@example.com",
		FirstName: "Jan",
		LastName:  "Kowalski",
		Phone:     "0412345678",
		Emoji:     "🗞️",
	})
	require.NoError(t, err)
	require.True(t, ok)

	updated, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "profil@example.com", updated.Email)
	require.Equal(t, "Jan", updated.FirstName)
	require.Equal(t, "Kowalski", updated.LastName)
	require.Equal(t, "0412345678", updated.Phone)
	require.Equal(t, "🗞️", updated.Emoji)
}

func TestDeleteUser_CascadesScrolls(t *testing.T) {
	user := createTestUser(t, "cascade user")
	scroll := createTestScroll(t, user.ID, "cascade scroll")

	deleted, err := testStore.DeleteUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	gone, err := testStore.GetScrollByID(context.Background(), scroll.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	deleted, err = testStore.DeleteUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestListUsersWithScrollCounts(t *testing.T) {
	user := createTestUser(t, "counted user")
	createTestScroll(t, user.ID, "counted scroll one")
	createTestScroll(t, user.ID, "counted scroll two")

	users, err := testStore.ListUsersWithScrollCounts(context.Background())
	require.NoError(t, err)

	var found *UserWithScrollCount
	for i := range users {
		if users[i].ID == user.ID {
			found = &users[i]
			break
		}
	}
	require.NotNil(t, found, "Expected the created user in the listing")
	require.Equal(t, int64(2), found.ScrollCount)
}

func TestSearchUsersByUsername(t *testing.T) {
	createTestUser(t, "szukany bibliotekarz")

	users, err := testStore.SearchUsersByUsername(context.Background(), "BIBLIOTEK")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "szukany bibliotekarz", users[0].Username)

	users, err = testStore.SearchUsersByUsername(context.Background(), "nikogo takiego nie ma")
	require.NoError(t, err)
	require.Empty(t, users)
	require.NotNil(t, users)
}
