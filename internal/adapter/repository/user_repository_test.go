package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"users-api/internal/domain/user"
	apperrors "users-api/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// Migrate the schema
	err = db.AutoMigrate(&UserSchema{})
	require.NoError(t, err)

	return db
}

func testUser(id string) user.User {
	return user.User{
		ID:     id,
		Name:   "John Doe",
		Phone:  "555-0101",
		Email:  "john@example.com",
		Age:    30,
		Weight: 72.5,
	}
}

func TestUserRepository_InsertAndFindByID(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := testUser("00112233aabbccdd")
	require.NoError(t, repo.Insert(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, *got)
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	got, err := repo.FindByID(context.Background(), "ffffffffffffffff")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Resource)
	assert.Equal(t, "ffffffffffffffff", nf.ID)
}

func TestUserRepository_FindAllAndCountAll(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	// Empty table is a valid outcome at this layer
	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	ids := []string{"0000000000000001", "0000000000000002", "0000000000000003"}
	for _, id := range ids {
		require.NoError(t, repo.Insert(ctx, testUser(id)))
	}

	users, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(ids))

	total, err = repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(ids)), total)
}

func TestUserRepository_Update_OverwritesAllFields(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := testUser("00112233aabbccdd")
	require.NoError(t, repo.Insert(ctx, u))

	// Zero values overwrite too: the update is a full replacement
	updated := user.User{
		ID:     u.ID,
		Name:   "",
		Phone:  "555-0202",
		Email:  "new@example.com",
		Age:    0,
		Weight: 0,
	}
	require.NoError(t, repo.Update(ctx, updated))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, *got)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := testUser("00112233aabbccdd")
	require.NoError(t, repo.Insert(ctx, u))

	require.NoError(t, repo.Delete(ctx, u.ID))

	_, err := repo.FindByID(ctx, u.ID)
	assert.True(t, apperrors.IsNotFound(err))

	// Deleting an absent row is not an error at this layer; existence
	// checks happen before the mutation.
	assert.NoError(t, repo.Delete(ctx, "ffffffffffffffff"))
}

func TestUserRepository_StoreErrors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.FindAll(ctx)
	assert.True(t, apperrors.IsStoreError(err))

	_, err = repo.CountAll(ctx)
	assert.True(t, apperrors.IsStoreError(err))

	_, err = repo.FindByID(ctx, "00112233aabbccdd")
	assert.True(t, apperrors.IsStoreError(err))

	err = repo.Insert(ctx, testUser("00112233aabbccdd"))
	assert.True(t, apperrors.IsStoreError(err))

	err = repo.Update(ctx, testUser("00112233aabbccdd"))
	assert.True(t, apperrors.IsStoreError(err))

	err = repo.Delete(ctx, "00112233aabbccdd")
	assert.True(t, apperrors.IsStoreError(err))
}
