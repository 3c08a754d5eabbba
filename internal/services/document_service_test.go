package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"jobza_backend/internal/models"
	"jobza_backend/internal/services/dto"
	"jobza_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLimits = UploadLimits{
	MaxSize:      1 << 20,
	AllowedTypes: []string{"image/png", "image/jpeg", "application/pdf"},
}

func pngBody() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
}

func uploadReq(userID string, label models.DocumentLabel, body []byte) *dto.UploadDocumentRequest {
	return &dto.UploadDocumentRequest{
		UserID:       userID,
		Label:        string(label),
		OriginalName: string(label) + ".png",
		Size:         int64(len(body)),
		File:         bytes.NewReader(body),
	}
}

func TestDocumentService_UploadDrivesStatus(t *testing.T) {
	f := newFixture()
	svc := f.documentService(testLimits)
	u := f.db.addUser(models.UserRoleWorker, models.AccountStatusNotCompleted)
	f.db.setProfile(&models.WorkerProfile{
		UserID: u.ID, Name: "Amina", PhoneNumber: "+9715", Country: "UAE",
		Nationality: "Kenyan", Gender: "female", SkillSet: []string{"cleaning"},
	})

	labels := DefaultRoleRules()[models.UserRoleWorker].RequiredDocumentLabels
	var last *dto.DocumentUploadResponse
	for i, label := range labels {
		resp, err := svc.Upload(context.Background(), nil, uploadReq(u.ID, label, pngBody()))
		require.NoError(t, err, label)
		assert.Equal(t, models.DocumentStatusPending, resp.Document.Status)
		assert.Equal(t, "image/png", resp.Document.MimeType)
		if i < len(labels)-1 {
			assert.Equal(t, models.AccountStatusNotCompleted, resp.Status)
		}
		last = resp
	}

	assert.Equal(t, models.AccountStatusPending, last.Status)
	assert.Equal(t, len(labels), f.storage.count())

	stored, err := f.users.FindByID(nil, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.SignatureUploaded)
}

func TestDocumentService_UploadReplacesSameLabel(t *testing.T) {
	f := newFixture()
	svc := f.documentService(testLimits)
	u := f.db.addUser(models.UserRoleWorker, models.AccountStatusNotCompleted)

	first, err := svc.Upload(context.Background(), nil, uploadReq(u.ID, models.LabelPassport, pngBody()))
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), nil, uploadReq(u.ID, models.LabelPassport, pngBody()))
	require.NoError(t, err)

	docs, err := svc.ListMine(nil, u.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, second.Document.ID, docs[0].ID)
	assert.NotEqual(t, first.Document.StorageKey, second.Document.StorageKey)
	assert.Equal(t, 1, f.storage.count(), "replaced object must be removed")
}

func TestDocumentService_ReuploadAfterRejectionClearsRejected(t *testing.T) {
	f := newFixture()
	svc := f.documentService(testLimits)
	u := f.completeWorker(models.DocumentStatusApproved)
	f.setDocStatus(u.ID, models.LabelPassport, models.DocumentStatusRejected)
	_, err := f.engine(models.UserRoleWorker).HandleFileRejection(context.Background(), nil, u.ID)
	require.NoError(t, err)
	require.Equal(t, models.AccountStatusRejected, f.db.status(u.ID))

	resp, err := svc.Upload(context.Background(), nil, uploadReq(u.ID, models.LabelPassport, pngBody()))

	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusPending, resp.Status)
}

func TestDocumentService_UploadValidation(t *testing.T) {
	f := newFixture()
	u := f.db.addUser(models.UserRoleWorker, models.AccountStatusNotCompleted)

	tests := []struct {
		name    string
		limits  UploadLimits
		req     *dto.UploadDocumentRequest
		wantErr *apperrors.AppError
	}{
		{
			name:    "unknown label",
			limits:  testLimits,
			req:     uploadReq(u.ID, "diploma", pngBody()),
			wantErr: apperrors.ErrInvalidDocumentLabel,
		},
		{
			name:    "too large",
			limits:  UploadLimits{MaxSize: 10},
			req:     uploadReq(u.ID, models.LabelPassport, pngBody()),
			wantErr: apperrors.ErrFileTooLarge,
		},
		{
			name:    "content type is sniffed",
			limits:  testLimits,
			req:     uploadReq(u.ID, models.LabelPassport, []byte("just some plain text pretending to be a png")),
			wantErr: apperrors.ErrInvalidFileType,
		},
		{
			name:    "missing account",
			limits:  testLimits,
			req:     uploadReq("missing", models.LabelPassport, pngBody()),
			wantErr: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.documentService(tt.limits).Upload(context.Background(), nil, tt.req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
	assert.Zero(t, f.storage.count())
}

func TestDocumentService_SignatureIsImmutable(t *testing.T) {
	f := newFixture()
	svc := f.documentService(testLimits)
	u := f.db.addUser(models.UserRoleWorker, models.AccountStatusNotCompleted)

	resp, err := svc.Upload(context.Background(), nil, uploadReq(u.ID, models.LabelSignature, pngBody()))
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), nil, uploadReq(u.ID, models.LabelSignature, pngBody()))
	assert.True(t, errors.Is(err, apperrors.ErrSignatureImmutable))

	_, err = svc.Delete(context.Background(), nil, u.ID, resp.Document.ID)
	assert.True(t, errors.Is(err, apperrors.ErrSignatureImmutable))
}

func TestDocumentService_Delete(t *testing.T) {
	f := newFixture()
	svc := f.documentService(testLimits)
	u := f.completeWorker(models.DocumentStatusPending)
	_, err := f.engine(models.UserRoleWorker).HandleFileUpload(context.Background(), nil, u.ID)
	require.NoError(t, err)

	passport, err := f.documents.FindByUserAndLabel(nil, u.ID, models.LabelPassport)
	require.NoError(t, err)

	t.Run("other user's document is not found", func(t *testing.T) {
		other := f.db.addUser(models.UserRoleWorker, models.AccountStatusNotCompleted)
		_, err := svc.Delete(context.Background(), nil, other.ID, passport.ID)
		assert.True(t, errors.Is(err, apperrors.ErrDocumentNotFound))
	})

	t.Run("pending document", func(t *testing.T) {
		resp, err := svc.Delete(context.Background(), nil, u.ID, passport.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AccountStatusNotCompleted, resp.Status)
	})

	t.Run("judged document", func(t *testing.T) {
		f.setDocStatus(u.ID, models.LabelFacePhoto, models.DocumentStatusApproved)
		face, err := f.documents.FindByUserAndLabel(nil, u.ID, models.LabelFacePhoto)
		require.NoError(t, err)

		_, err = svc.Delete(context.Background(), nil, u.ID, face.ID)
		assert.True(t, errors.Is(err, apperrors.ErrDocumentAlreadyJudged))
	})
}

func TestSniffContentType(t *testing.T) {
	body := "%PDF-1.4\n" + strings.Repeat("x", 1024)

	r, contentType, err := sniffContentType(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, body, buf.String(), "sniffing must not consume the body")
}
