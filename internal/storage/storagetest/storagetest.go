// Package storagetest holds a behaviour suite shared by every
// storage.Storage backend.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/contacts/internal/storage"
	"github.com/aanand-mishra/contacts/internal/types"
)

// Run exercises s, which must start empty.
func Run(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()

	people, err := s.GetPeople(ctx)
	require.NoError(t, err)
	require.NotNil(t, people)
	require.Empty(t, people)

	john := types.Person{FirstName: "John", LastName: "Doe", Email: "john@doe.com"}
	jane := types.Person{FirstName: "Jane", LastName: "Roe", Email: "jane@roe.com"}

	johnID, err := s.CreatePerson(ctx, john)
	require.NoError(t, err)
	janeID, err := s.CreatePerson(ctx, jane)
	require.NoError(t, err)
	assert.Greater(t, janeID, johnID)

	t.Run("get by id", func(t *testing.T) {
		got, err := s.GetPersonByID(ctx, johnID)
		require.NoError(t, err)
		john.ID = johnID
		assert.Equal(t, john, got)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := s.GetPersonByID(ctx, janeID+100)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list ordered by id", func(t *testing.T) {
		got, err := s.GetPeople(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, johnID, got[0].ID)
		assert.Equal(t, janeID, got[1].ID)
	})

	t.Run("update in place", func(t *testing.T) {
		updated, err := s.UpdatePersonByID(ctx, johnID, types.Person{FirstName: "Johnny", LastName: "Dough", Email: "johnny@dough.com"})
		require.NoError(t, err)
		assert.Equal(t, johnID, updated.ID)

		got, err := s.GetPersonByID(ctx, johnID)
		require.NoError(t, err)
		assert.Equal(t, types.Person{ID: johnID, FirstName: "Johnny", LastName: "Dough", Email: "johnny@dough.com"}, got)

		other, err := s.GetPersonByID(ctx, janeID)
		require.NoError(t, err)
		assert.Equal(t, "Jane", other.FirstName)
	})

	t.Run("update missing", func(t *testing.T) {
		_, err := s.UpdatePersonByID(ctx, janeID+100, jane)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete missing is a no-op", func(t *testing.T) {
		deleted, err := s.DeletePersonByID(ctx, janeID+100)
		require.NoError(t, err)
		assert.False(t, deleted)

		got, err := s.GetPeople(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := s.DeletePersonByID(ctx, johnID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = s.GetPersonByID(ctx, johnID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ids are not reused", func(t *testing.T) {
		id, err := s.CreatePerson(ctx, john)
		require.NoError(t, err)
		assert.Greater(t, id, janeID)
	})
}
