package repositories

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"jobza_backend/database"
	"jobza_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Тесты ходят в живой Postgres: TEST_DATABASE_URL=postgres://... go test ./internal/repositories/
var (
	testDB     *gorm.DB
	testDBErr  error
	testDBOnce sync.Once
)

// withTx открывает транзакцию на тест и откатывает ее в конце
func withTx(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	testDBOnce.Do(func() {
		testDB, testDBErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if testDBErr == nil {
			testDBErr = database.AutoMigrate(testDB)
		}
	})
	require.NoError(t, testDBErr)

	tx := testDB.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func createUser(t *testing.T, tx *gorm.DB, role models.UserRole, status models.AccountStatus) *models.User {
	t.Helper()
	user := &models.User{
		Email:  fmt.Sprintf("%s_%d@test.com", role, time.Now().UnixNano()),
		Role:   role,
		Status: status,
	}
	require.NoError(t, NewUserRepository().Create(tx, user))
	return user
}

func TestUserRepository_Postgres(t *testing.T) {
	tx := withTx(t)
	repo := NewUserRepository()

	user := createUser(t, tx, models.UserRoleWorker, models.AccountStatusNotCompleted)

	dup := &models.User{Email: "  " + user.Email + " ", Role: models.UserRoleEmployer}
	assert.ErrorIs(t, repo.Create(tx, dup), ErrUserAlreadyExists)

	require.NoError(t, repo.UpdateStatus(tx, user.ID, models.AccountStatusPending))
	got, err := repo.FindByID(tx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusPending, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(tx, "00000000-0000-0000-0000-000000000000", models.AccountStatusPending), ErrUserNotFound)

	counts, err := repo.CountByRoleAndStatus(tx)
	require.NoError(t, err)
	var found bool
	for _, c := range counts {
		if c.Role == models.UserRoleWorker && c.Status == models.AccountStatusPending {
			found = c.Count > 0
		}
	}
	assert.True(t, found)
}

func TestProfileRepository_Postgres(t *testing.T) {
	tx := withTx(t)
	repo := NewProfileRepository()

	approved := createUser(t, tx, models.UserRoleWorker, models.AccountStatusApproved)
	pending := createUser(t, tx, models.UserRoleWorker, models.AccountStatusPending)

	for _, u := range []*models.User{approved, pending} {
		_, err := repo.CreateStub(tx, models.UserRoleWorker, u.ID, u.Email)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateWorker(tx, u.ID, map[string]interface{}{"country": "Kenya"}))
		require.NoError(t, repo.UpdateWorkerSkills(tx, u.ID, []string{"cooking", "childcare"}))
	}

	tx.SavePoint("dup_profile")
	_, err := repo.CreateStub(tx, models.UserRoleWorker, approved.ID, approved.Email)
	assert.ErrorIs(t, err, ErrProfileAlreadyExists)
	tx.RollbackTo("dup_profile")

	_, err = repo.CreateStub(tx, models.UserRoleAdmin, approved.ID, approved.Email)
	assert.ErrorIs(t, err, ErrNoProfileForRole)

	profiles, total, err := repo.SearchApprovedWorkers(tx, WorkerSearchCriteria{Country: "kenya", Skill: "cooking"})
	require.NoError(t, err)
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	assert.Contains(t, ids, approved.ID)
	assert.NotContains(t, ids, pending.ID)
	assert.EqualValues(t, len(profiles), total)

	_, err = repo.FindApprovedWorker(tx, pending.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	profile, err := repo.FindWorkerByUserID(tx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"cooking", "childcare"}, profile.Skills())
}

func TestDocumentRepository_Postgres(t *testing.T) {
	tx := withTx(t)
	repo := NewDocumentRepository()
	user := createUser(t, tx, models.UserRoleWorker, models.AccountStatusNotCompleted)

	doc := &models.Document{
		UserID:     user.ID,
		Label:      models.LabelSignature,
		Status:     models.DocumentStatusPending,
		StorageKey: "documents/" + user.ID + "/signature/a.png",
		Metadata:   datatypes.JSON(`{"source":"upload"}`),
	}
	require.NoError(t, repo.Create(tx, doc))

	// одна метка на пользователя
	tx.SavePoint("dup_label")
	dup := *doc
	dup.ID = ""
	assert.ErrorIs(t, repo.Create(tx, &dup), gorm.ErrDuplicatedKey)
	tx.RollbackTo("dup_label")

	pending, total, err := repo.FindPending(tx, 1, 100)
	require.NoError(t, err)
	assert.Positive(t, total)
	assert.NotEmpty(t, pending)

	require.NoError(t, repo.UpdateJudgment(tx, doc.ID, models.DocumentStatusRejected, "blurry", user.ID))
	got, err := repo.FindByUserAndLabel(tx, user.ID, models.LabelSignature)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusRejected, got.Status)
	assert.Equal(t, "blurry", got.RejectionReason)
	require.NotNil(t, got.ReviewedAt)

	// повторное решение не перетирает первое
	assert.ErrorIs(t, repo.UpdateJudgment(tx, doc.ID, models.DocumentStatusApproved, "", user.ID), ErrDocumentAlreadyJudged)
	got, err = repo.FindByID(tx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusRejected, got.Status)
	assert.ErrorIs(t, repo.UpdateJudgment(tx, "00000000-0000-0000-0000-000000000000", models.DocumentStatusApproved, "", user.ID), ErrDocumentNotFound)

	require.NoError(t, repo.Delete(tx, doc.ID))
	assert.ErrorIs(t, repo.Delete(tx, doc.ID), ErrDocumentNotFound)
}

func TestRefreshTokenRepository_Postgres(t *testing.T) {
	tx := withTx(t)
	repo := NewRefreshTokenRepository()
	user := createUser(t, tx, models.UserRoleEmployer, models.AccountStatusNotCompleted)

	require.NoError(t, repo.Create(tx, &models.RefreshToken{UserID: user.ID, Token: "live-" + user.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.Create(tx, &models.RefreshToken{UserID: user.ID, Token: "dead-" + user.ID, ExpiresAt: time.Now().Add(-time.Hour)}))

	_, err := repo.FindValid(tx, "dead-"+user.ID)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	removed, err := repo.DeleteExpired(tx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, int64(1))

	_, err = repo.FindValid(tx, "live-"+user.ID)
	assert.NoError(t, err)
}
