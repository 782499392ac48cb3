package repository

import (
	"context"
	"testing"
	"time"

	"formbackend/internal/app/ds"
	"formbackend/internal/app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewWithDB(testutil.NewSQLite(t))
	require.NoError(t, err)
	return repo
}

func formRow(id string, created time.Time) *ds.FormConfig {
	return &ds.FormConfig{
		ID:        id,
		Name:      "Form " + id,
		Config:    []byte(`{"id":"` + id + `","title":"Form ` + id + `"}`),
		Active:    true,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestFormConfigLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("UpsertAndGet", func(t *testing.T) {
		require.NoError(t, repo.UpsertFormConfig(ctx, formRow("a", base)))

		row, err := repo.GetActiveFormConfig(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "Form a", row.Name)
		assert.JSONEq(t, `{"id":"a","title":"Form a"}`, string(row.Config))
	})

	t.Run("UpsertReplacesCreatedAt", func(t *testing.T) {
		later := base.Add(time.Hour)
		replacement := formRow("a", later)
		replacement.Name = "Renamed"
		require.NoError(t, repo.UpsertFormConfig(ctx, replacement))

		row, err := repo.GetActiveFormConfig(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "Renamed", row.Name)
		assert.True(t, row.CreatedAt.Equal(later))
	})

	t.Run("UpdateKeepsCreatedAtAndActive", func(t *testing.T) {
		before, err := repo.GetActiveFormConfig(ctx, "a")
		require.NoError(t, err)

		updated := base.Add(2 * time.Hour)
		require.NoError(t, repo.UpdateFormConfig(ctx, "a", "Updated", []byte(`{"id":"a","title":"Updated"}`), updated))

		row, err := repo.GetActiveFormConfig(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "Updated", row.Name)
		assert.True(t, row.Active)
		assert.True(t, row.CreatedAt.Equal(before.CreatedAt))
		assert.True(t, row.UpdatedAt.Equal(updated))
	})

	t.Run("DeactivateIsIdempotent", func(t *testing.T) {
		require.NoError(t, repo.DeactivateFormConfig(ctx, "a"))
		require.NoError(t, repo.DeactivateFormConfig(ctx, "a"))
		require.NoError(t, repo.DeactivateFormConfig(ctx, "missing"))

		row, err := repo.GetActiveFormConfig(ctx, "a")
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("ListOrdersActiveFirstThenNewest", func(t *testing.T) {
		require.NoError(t, repo.UpsertFormConfig(ctx, formRow("b", base.Add(3*time.Hour))))
		require.NoError(t, repo.UpsertFormConfig(ctx, formRow("c", base.Add(4*time.Hour))))

		rows, err := repo.ListFormConfigs(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "c", rows[0].ID)
		assert.Equal(t, "b", rows[1].ID)
		assert.Equal(t, "a", rows[2].ID)
		assert.False(t, rows[2].Active)
	})
}

func TestSubmissions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ref := "ref_1"
	amount := 25.5
	for i, id := range []string{"s1", "s2", "s3"} {
		row := &ds.Submission{
			ID:        id,
			Data:      []byte(`{"email":"a@b.c"}`),
			Status:    "submitted",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if id == "s2" {
			row.PaymentRef = &ref
			row.Amount = &amount
			row.Status = "paid"
		}
		require.NoError(t, repo.CreateSubmission(ctx, row))
	}

	rows, err := repo.LatestSubmissions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "s3", rows[0].ID)
	assert.Equal(t, "s2", rows[1].ID)
	require.NotNil(t, rows[1].PaymentRef)
	assert.Equal(t, ref, *rows[1].PaymentRef)
	require.NotNil(t, rows[1].Amount)
	assert.InDelta(t, amount, *rows[1].Amount, 0.001)

	row, err := repo.SubmissionByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Nil(t, row.PaymentRef)

	missing, err := repo.SubmissionByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
