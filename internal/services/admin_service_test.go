package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"jobza_backend/internal/email"
	"jobza_backend/internal/models"
	"jobza_backend/internal/repositories"
	"jobza_backend/internal/services/dto"
	"jobza_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAdminService_JudgeLastDocumentApprovesAccount(t *testing.T) {
	f := newFixture()
	svc := f.adminService()
	admin := f.db.addUser(models.UserRoleAdmin, models.AccountStatusApproved)
	u := f.completeWorker(models.DocumentStatusApproved)
	f.setDocStatus(u.ID, models.LabelSignature, models.DocumentStatusPending)
	sig, err := f.documents.FindByUserAndLabel(nil, u.ID, models.LabelSignature)
	require.NoError(t, err)

	resp, err := svc.JudgeDocument(context.Background(), nil, admin.ID, sig.ID, &dto.JudgeDocumentRequest{
		Status: "approved",
		Reason: "ignored on approval",
	})

	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusApproved, resp.ProfileStatus)
	assert.Equal(t, models.DocumentStatusApproved, resp.Document.Status)
	assert.Empty(t, resp.Document.RejectionReason)
	require.NotNil(t, resp.Document.ReviewedBy)
	assert.Equal(t, admin.ID, *resp.Document.ReviewedBy)
	assert.Equal(t, models.AccountStatusApproved, f.db.status(u.ID))

	mail := f.mailer.last()
	assert.Equal(t, email.TemplateDocumentJudged, mail.Template)
	assert.Equal(t, []string{u.Email}, mail.To)
	assert.Equal(t, string(models.AccountStatusApproved), mail.Data["ProfileStatus"])
}

func TestAdminService_JudgeRejection(t *testing.T) {
	f := newFixture()
	svc := f.adminService()
	admin := f.db.addUser(models.UserRoleAdmin, models.AccountStatusApproved)
	u := f.completeWorker(models.DocumentStatusPending)
	passport, err := f.documents.FindByUserAndLabel(nil, u.ID, models.LabelPassport)
	require.NoError(t, err)

	t.Run("reason is required", func(t *testing.T) {
		_, err := svc.JudgeDocument(context.Background(), nil, admin.ID, passport.ID, &dto.JudgeDocumentRequest{Status: "rejected", Reason: "  "})
		assert.True(t, errors.Is(err, apperrors.ErrRejectionReasonRequired))
	})

	t.Run("rejects account", func(t *testing.T) {
		resp, err := svc.JudgeDocument(context.Background(), nil, admin.ID, passport.ID, &dto.JudgeDocumentRequest{Status: "rejected", Reason: "expired"})
		require.NoError(t, err)
		assert.Equal(t, models.AccountStatusRejected, resp.ProfileStatus)
		assert.Equal(t, "expired", resp.Document.RejectionReason)
		assert.Equal(t, "expired", f.mailer.last().Data["Reason"])
	})

	t.Run("cannot judge twice", func(t *testing.T) {
		_, err := svc.JudgeDocument(context.Background(), nil, admin.ID, passport.ID, &dto.JudgeDocumentRequest{Status: "approved"})
		assert.True(t, errors.Is(err, apperrors.ErrDocumentAlreadyJudged))
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := svc.JudgeDocument(context.Background(), nil, admin.ID, "missing", &dto.JudgeDocumentRequest{Status: "approved"})
		assert.True(t, errors.Is(err, apperrors.ErrDocumentNotFound))
	})
}

// lockstepDocumentRepo держит первые reads FindByID, пока их не сделают все участники
type lockstepDocumentRepo struct {
	fakeDocumentRepo
	reads   int32
	parties int32
	arrived sync.WaitGroup
}

func newLockstepDocumentRepo(inner fakeDocumentRepo, parties int) *lockstepDocumentRepo {
	r := &lockstepDocumentRepo{fakeDocumentRepo: inner, parties: int32(parties)}
	r.arrived.Add(parties)
	return r
}

func (r *lockstepDocumentRepo) FindByID(db *gorm.DB, id string) (*models.Document, error) {
	doc, err := r.fakeDocumentRepo.FindByID(db, id)
	if atomic.AddInt32(&r.reads, 1) <= r.parties {
		r.arrived.Done()
		r.arrived.Wait()
	}
	return doc, err
}

func TestAdminService_ConcurrentJudgmentsOnlyOneWins(t *testing.T) {
	f := newFixture()
	admin := f.db.addUser(models.UserRoleAdmin, models.AccountStatusApproved)
	u := f.completeWorker(models.DocumentStatusPending)
	passport, err := f.documents.FindByUserAndLabel(nil, u.ID, models.LabelPassport)
	require.NoError(t, err)

	docs := newLockstepDocumentRepo(f.documents, 2)
	svc := NewAdminService(f.users, f.profiles, docs, f.conns, f.tokens, f.storage, f.mailer, f.statuses)

	verdicts := []*dto.JudgeDocumentRequest{
		{Status: "approved"},
		{Status: "rejected", Reason: "expired"},
	}
	errs := make([]error, len(verdicts))
	var wg sync.WaitGroup
	for i, req := range verdicts {
		wg.Add(1)
		go func(i int, req *dto.JudgeDocumentRequest) {
			defer wg.Done()
			_, errs[i] = svc.JudgeDocument(context.Background(), nil, admin.ID, passport.ID, req)
		}(i, req)
	}
	wg.Wait()

	var won int
	var winner string
	for i, err := range errs {
		if err == nil {
			won++
			winner = verdicts[i].Status
			continue
		}
		assert.True(t, errors.Is(err, apperrors.ErrDocumentAlreadyJudged), err)
	}
	require.Equal(t, 1, won)

	got, err := f.documents.FindByID(nil, passport.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatus(winner), got.Status)
	assert.Equal(t, 1, f.mailer.count())
}

func TestAdminService_JudgeRepositoryRaceIsMapped(t *testing.T) {
	assert.True(t, errors.Is(handleAdminError(repositories.ErrDocumentAlreadyJudged), apperrors.ErrDocumentAlreadyJudged))
}

func TestAdminService_OverrideStatus(t *testing.T) {
	f := newFixture()
	svc := f.adminService()
	admin := f.db.addUser(models.UserRoleAdmin, models.AccountStatusApproved)
	otherAdmin := f.db.addUser(models.UserRoleAdmin, models.AccountStatusApproved)
	super := f.db.addUser(models.UserRoleSuperAdmin, models.AccountStatusApproved)
	worker := f.db.addUser(models.UserRoleWorker, models.AccountStatusNotCompleted)

	t.Run("admin overrides worker", func(t *testing.T) {
		resp, err := svc.OverrideStatus(context.Background(), nil, admin.ID, models.UserRoleAdmin, worker.ID, "approved")
		require.NoError(t, err)
		assert.Equal(t, models.AccountStatusApproved, resp.Status)
		assert.Equal(t, models.AccountStatusApproved, f.db.status(worker.ID))

		evts := f.publisher.all()
		require.NotEmpty(t, evts)
		assert.Equal(t, TriggerAdminOverride, evts[len(evts)-1].Trigger)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.OverrideStatus(context.Background(), nil, admin.ID, models.UserRoleAdmin, worker.ID, "archived")
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
	})

	t.Run("self", func(t *testing.T) {
		_, err := svc.OverrideStatus(context.Background(), nil, admin.ID, models.UserRoleAdmin, admin.ID, "approved")
		assert.True(t, errors.Is(err, apperrors.ErrCannotModifySelf))
	})

	t.Run("admin cannot touch another admin", func(t *testing.T) {
		_, err := svc.OverrideStatus(context.Background(), nil, admin.ID, models.UserRoleAdmin, otherAdmin.ID, "rejected")
		assert.True(t, errors.Is(err, apperrors.ErrInsufficientPermissions))
	})

	t.Run("staff accounts have no status engine", func(t *testing.T) {
		_, err := svc.OverrideStatus(context.Background(), nil, super.ID, models.UserRoleSuperAdmin, otherAdmin.ID, "rejected")
		assert.True(t, errors.Is(err, apperrors.ErrUnknownRole))
	})
}

func TestAdminService_ReEvaluate(t *testing.T) {
	f := newFixture()
	svc := f.adminService()
	u := f.completeWorker(models.DocumentStatusApproved)
	admin := f.db.addUser(models.UserRoleAdmin, models.AccountStatusApproved)

	resp, err := svc.ReEvaluate(context.Background(), nil, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusApproved, resp.Status)

	_, err = svc.ReEvaluate(context.Background(), nil, admin.ID)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownRole))
}

func TestAdminService_GetUserDetails(t *testing.T) {
	f := newFixture()
	svc := f.adminService()
	u := f.completeWorker(models.DocumentStatusPending)
	admin := f.db.addUser(models.UserRoleAdmin, models.AccountStatusApproved)

	details, err := svc.GetUserDetails(context.Background(), nil, u.ID)
	require.NoError(t, err)
	assert.Len(t, details.Documents, 8)
	require.NotNil(t, details.Completeness)
	assert.Equal(t, models.AccountStatusPending, details.Completeness.Status)
	assert.NotNil(t, details.Profile)

	details, err = svc.GetUserDetails(context.Background(), nil, admin.ID)
	require.NoError(t, err)
	assert.Nil(t, details.Completeness)
	assert.Nil(t, details.Profile)
}

func TestAdminService_GetStats(t *testing.T) {
	f := newFixture()
	f.db.addUser(models.UserRoleWorker, models.AccountStatusApproved)
	f.db.addUser(models.UserRoleWorker, models.AccountStatusPending)
	f.db.addUser(models.UserRoleEmployer, models.AccountStatusPending)
	f.db.addUser(models.UserRoleAdmin, models.AccountStatusApproved)

	stats, err := f.adminService().GetStats(nil)

	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalUsers)
	assert.EqualValues(t, 2, stats.ByRole["worker"])
	assert.EqualValues(t, 2, stats.ByStatus["pending"])
	assert.EqualValues(t, 1, stats.Matrix["employer"]["pending"])
}

func TestAdminService_CreateAdmin(t *testing.T) {
	f := newFixture()
	svc := f.adminService()

	created, err := svc.CreateAdmin(nil, &dto.CreateAdminRequest{Email: "Mod@Jobza.test", Password: "moderate123"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, created.Role)
	assert.Equal(t, "mod@jobza.test", created.Email)

	_, err = svc.CreateAdmin(nil, &dto.CreateAdminRequest{Email: "mod@jobza.test", Password: "moderate123"})
	assert.True(t, errors.Is(err, apperrors.ErrEmailAlreadyExists))

	_, err = svc.CreateAdmin(nil, &dto.CreateAdminRequest{Email: "weak@jobza.test", Password: "short"})
	assert.True(t, errors.Is(err, apperrors.ErrWeakPassword))

	admins, err := svc.ListAdmins(nil)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestAdminService_DeleteUser(t *testing.T) {
	f := newFixture()
	svc := f.adminService()
	super := f.db.addUser(models.UserRoleSuperAdmin, models.AccountStatusApproved)
	u := f.completeWorker(models.DocumentStatusPending)
	for _, d := range f.db.documents {
		f.storage.objects[d.StorageKey] = []byte("x")
	}
	require.NoError(t, f.tokens.Create(nil, &models.RefreshToken{UserID: u.ID, Token: "t1"}))

	err := svc.DeleteUser(context.Background(), nil, super.ID, models.UserRoleSuperAdmin, u.ID)
	require.NoError(t, err)

	_, err = f.users.FindByID(nil, u.ID)
	assert.Error(t, err)
	assert.Empty(t, f.db.documents)
	assert.Empty(t, f.db.profiles)
	assert.Empty(t, f.db.tokens)
	assert.Zero(t, f.storage.count())

	err = svc.DeleteUser(context.Background(), nil, super.ID, models.UserRoleSuperAdmin, super.ID)
	assert.True(t, errors.Is(err, apperrors.ErrCannotModifySelf))
}
