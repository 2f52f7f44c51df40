package store_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"results-portal/config"
	"results-portal/driver"
	"results-portal/models"
	"results-portal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *store.SQLStore {
	t.Helper()
	db, err := driver.ConnectDB(config.DriverSQLite, filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	require.NoError(t, driver.Migrate(db, config.DriverSQLite, log))
	return store.NewSQLStore(db)
}

func sampleResult(roll string) *models.Result {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &models.Result{
		ID:          uuid.NewString(),
		Name:        "Asha Verma",
		FatherName:  "Ravi Verma",
		RollNumber:  roll,
		Examination: "Intermediate",
		College:     "City College",
		Stream:      "Science",
		Medium:      "English",
		PassingYear: "2024",
		Session:     "2023-24",
		Subjects: []models.Subject{
			{Code: "PHY", Name: "Physics", Marks: "78", Grade: "A"},
			{Code: "CHE", Name: "Chemistry", Marks: "65", Grade: "B"},
			{Code: "MAT", Name: "Mathematics", Marks: "91", Grade: "A+"},
		},
		TotalMarks: 234,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestSQLStoreInsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r := sampleResult("R-1001")
	require.NoError(t, s.Insert(ctx, r))

	got, err := s.FindByRollNumber(ctx, "R-1001")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.Subjects, got.Subjects)
	assert.Equal(t, r.TotalMarks, got.TotalMarks)
	assert.True(t, r.CreatedAt.Equal(got.CreatedAt))

	byID, err := s.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "R-1001", byID.RollNumber)
}

func TestSQLStoreRollNumberIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	require.NoError(t, s.Insert(ctx, sampleResult("ab-1")))

	_, err := s.FindByRollNumber(ctx, "AB-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Insert(ctx, sampleResult("AB-1")))
	got, err := s.FindByRollNumber(ctx, "AB-1")
	require.NoError(t, err)
	assert.Equal(t, "AB-1", got.RollNumber)
}

func TestSQLStoreDuplicateRollNumber(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	first := sampleResult("R-1")
	require.NoError(t, s.Insert(ctx, first))

	dup := sampleResult("R-1")
	dup.Name = "Someone Else"
	assert.ErrorIs(t, s.Insert(ctx, dup), store.ErrDuplicateKey)

	got, err := s.FindByRollNumber(ctx, "R-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Asha Verma", got.Name)

	_, err = s.FindByID(ctx, dup.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "failed insert must not leave rows behind")
}

func TestSQLStoreReplaceSwapsSubjects(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r := sampleResult("R-2")
	require.NoError(t, s.Insert(ctx, r))

	r.Subjects = []models.Subject{{Code: "BIO", Name: "Biology", Marks: "55", Grade: "C"}}
	r.TotalMarks = 55
	r.UpdatedAt = r.UpdatedAt.Add(time.Hour)
	require.NoError(t, s.Replace(ctx, r))

	got, err := s.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Subjects, got.Subjects)
	assert.Equal(t, 55.0, got.TotalMarks)
}

func TestSQLStoreReplaceUnchangedRecord(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r := sampleResult("R-3")
	require.NoError(t, s.Insert(ctx, r))
	assert.NoError(t, s.Replace(ctx, r))
}

func TestSQLStoreReplaceMissing(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r := sampleResult("R-4")

	assert.ErrorIs(t, s.Replace(ctx, r), store.ErrNotFound)
	_, err := s.FindByRollNumber(ctx, "R-4")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLStoreReplaceIntoTakenRollNumber(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	a := sampleResult("A")
	b := sampleResult("B")
	require.NoError(t, s.Insert(ctx, a))
	require.NoError(t, s.Insert(ctx, b))

	b.RollNumber = "A"
	assert.ErrorIs(t, s.Replace(ctx, b), store.ErrDuplicateKey)
}

func TestSQLStoreDeleteTwice(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r := sampleResult("R-5")
	require.NoError(t, s.Insert(ctx, r))

	require.NoError(t, s.Delete(ctx, r.ID))
	assert.ErrorIs(t, s.Delete(ctx, r.ID), store.ErrNotFound)
	_, err := s.FindByRollNumber(ctx, "R-5")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLStoreEmptySubjects(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	r := sampleResult("R-6")
	r.Subjects = nil
	require.NoError(t, s.Insert(ctx, r))

	got, err := s.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Subjects)
	assert.Empty(t, got.Subjects)
}

func TestSQLStorePing(t *testing.T) {
	assert.NoError(t, newSQLiteStore(t).Ping(context.Background()))
}
