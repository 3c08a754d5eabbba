package services

import (
	"context"
	"errors"
	"testing"

	"jobza_backend/internal/models"
	"jobza_backend/internal/services/dto"
	"jobza_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProfileService_UpdateMyProfile(t *testing.T) {
	f := newFixture()
	svc := f.profileService()
	u := f.db.addUser(models.UserRoleEmployer, models.AccountStatusNotCompleted)

	resp, err := svc.UpdateMyProfile(context.Background(), nil, u.ID, &dto.UpdateProfileRequest{
		Name:        strPtr(" Sara "),
		PhoneNumber: strPtr("+971500000001"),
		Country:     strPtr("UAE"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusNotCompleted, resp.Status)

	resp, err = svc.UpdateMyProfile(context.Background(), nil, u.ID, &dto.UpdateProfileRequest{
		Nationality: strPtr("Egyptian"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusPending, resp.Status)

	me, err := svc.GetMyProfile(nil, u.ID)
	require.NoError(t, err)
	employer, ok := me.Profile.(*models.EmployerProfile)
	require.True(t, ok)
	assert.Equal(t, "Sara", employer.Name)
}

func TestProfileService_UpdateMyProfileStaffAccount(t *testing.T) {
	f := newFixture()
	admin := f.db.addUser(models.UserRoleAdmin, models.AccountStatusApproved)

	_, err := f.profileService().UpdateMyProfile(context.Background(), nil, admin.ID, &dto.UpdateProfileRequest{Name: strPtr("Mod")})

	assert.True(t, errors.Is(err, apperrors.ErrUnknownRole))
}

func TestProfileService_UpdateSkills(t *testing.T) {
	f := newFixture()
	svc := f.profileService()
	u := f.completeWorker(models.DocumentStatusApproved)
	f.db.profiles[u.ID].(*models.WorkerProfile).SkillSet = nil

	resp, err := svc.UpdateSkills(context.Background(), nil, u.ID, &dto.UpdateSkillsRequest{Skills: []string{" Cooking", "cooking", "", "Child Care"}})
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusApproved, resp.Status)
	assert.Equal(t, []string{"cooking", "child care"}, []string(f.db.profiles[u.ID].(*models.WorkerProfile).SkillSet))

	resp, err = svc.UpdateSkills(context.Background(), nil, u.ID, &dto.UpdateSkillsRequest{Skills: []string{" "}})
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusNotCompleted, resp.Status)

	employer := f.db.addUser(models.UserRoleEmployer, models.AccountStatusNotCompleted)
	_, err = svc.UpdateSkills(context.Background(), nil, employer.ID, &dto.UpdateSkillsRequest{Skills: []string{"cooking"}})
	assert.True(t, errors.Is(err, apperrors.ErrSkillsNotSupported))
}

func TestProfileService_WorkerDirectoryShowsApprovedOnly(t *testing.T) {
	f := newFixture()
	svc := f.profileService()
	approved := f.completeWorker(models.DocumentStatusApproved)
	_, err := f.engine(models.UserRoleWorker).HandleFileApproval(context.Background(), nil, approved.ID)
	require.NoError(t, err)
	pending := f.completeWorker(models.DocumentStatusPending)

	list, err := svc.SearchWorkers(nil, &dto.WorkerSearchRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	card, err := svc.GetWorker(nil, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, approved.ID, card.UserID)

	_, err = svc.GetWorker(nil, pending.ID)
	assert.True(t, errors.Is(err, apperrors.ErrProfileNotFound))
}

func TestNormalizeList(t *testing.T) {
	assert.Equal(t, []string{"arabic", "english"}, normalizeList([]string{"Arabic", " english ", "ARABIC", ""}))
	assert.Empty(t, normalizeList(nil))
}
