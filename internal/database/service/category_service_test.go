package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/repository"
	"github.com/EgehanKilicarslan/inventory-api/internal/testutil"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

func newCategoryService(t *testing.T) CategoryService {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewCategoryService(repository.NewCategoryRepository(db), validation.New(), testutil.TestLogger())
}

func requireFieldError(t *testing.T, err error, field, message string) {
	t.Helper()
	errs, ok := validation.AsErrors(err)
	require.True(t, ok, "expected validation errors, got %v", err)
	assert.Equal(t, []string{message}, errs[field])
}

func TestCategoryService_CreateAndGet(t *testing.T) {
	svc := newCategoryService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validation.CategoryInput{CategoryName: "  Tools ", CategoryDescription: testutil.Ptr("Hand tools")})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Tools", created.CategoryName)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tools", got.CategoryName)
	assert.Equal(t, "Hand tools", *got.CategoryDescription)

	_, err = svc.Create(ctx, validation.CategoryInput{CategoryName: "Tools"})
	requireFieldError(t, err, "category_name", "The category name has already been taken.")

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_List(t *testing.T) {
	svc := newCategoryService(t)
	ctx := context.Background()

	empty, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 1, empty.TotalPages())
	assert.False(t, empty.HasNext())

	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, validation.CategoryInput{CategoryName: fmt.Sprintf("Category %02d", i)})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Len(t, first.Items, CategoriesPerPage)
	assert.Equal(t, int64(25), first.Total)
	assert.Equal(t, 2, first.TotalPages())
	assert.True(t, first.HasNext())

	second, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second.Items, 5)
	assert.False(t, second.HasNext())
}

func TestCategoryService_Update(t *testing.T) {
	svc := newCategoryService(t)
	ctx := context.Background()

	tools, err := svc.Create(ctx, validation.CategoryInput{CategoryName: "Tools"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, validation.CategoryInput{CategoryName: "Garden"})
	require.NoError(t, err)

	t.Run("keeps own name", func(t *testing.T) {
		updated, err := svc.Update(ctx, tools.ID, validation.CategoryInput{CategoryName: "Tools", CategoryDescription: testutil.Ptr("All tools")})
		require.NoError(t, err)
		assert.Equal(t, "All tools", *updated.CategoryDescription)
	})

	t.Run("name of another category", func(t *testing.T) {
		_, err := svc.Update(ctx, tools.ID, validation.CategoryInput{CategoryName: "Garden"})
		requireFieldError(t, err, "category_name", "The category name has already been taken.")

		unchanged, err := svc.Get(ctx, tools.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tools", unchanged.CategoryName)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, validation.CategoryInput{CategoryName: "Other"})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestCategoryService_SoftDeleteAndRestore(t *testing.T) {
	svc := newCategoryService(t)
	ctx := context.Background()

	tools, err := svc.Create(ctx, validation.CategoryInput{CategoryName: "Tools", CategoryDescription: testutil.Ptr("Hand tools")})
	require.NoError(t, err)

	before, err := svc.Get(ctx, tools.ID)
	require.NoError(t, err)

	// Restoring an active category is a not-found no-op
	assert.ErrorIs(t, svc.Restore(ctx, tools.ID), ErrCategoryNotFound)

	require.NoError(t, svc.SoftDelete(ctx, tools.ID))
	assert.ErrorIs(t, svc.SoftDelete(ctx, tools.ID), ErrCategoryNotFound)

	_, err = svc.Get(ctx, tools.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	archived, err := svc.ListSoftDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, tools.ID, archived[0].ID)

	require.NoError(t, svc.Restore(ctx, tools.ID))

	restored, err := svc.Get(ctx, tools.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.True(t, before.UpdatedAt.Equal(restored.UpdatedAt), "updated_at changed: %v -> %v", before.UpdatedAt, restored.UpdatedAt)
	assert.Equal(t, *before, *restored)

	archived, err = svc.ListSoftDeleted(ctx)
	require.NoError(t, err)
	assert.NotNil(t, archived)
	assert.Empty(t, archived)
}

func TestCategoryService_RestoreCollision(t *testing.T) {
	svc := newCategoryService(t)
	ctx := context.Background()

	original, err := svc.Create(ctx, validation.CategoryInput{CategoryName: "Tools"})
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, original.ID))

	// The name is free again once the original is soft deleted
	_, err = svc.Create(ctx, validation.CategoryInput{CategoryName: "Tools"})
	require.NoError(t, err)

	err = svc.Restore(ctx, original.ID)
	requireFieldError(t, err, "category_name", "The category name has already been taken.")

	_, err = svc.Get(ctx, original.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
