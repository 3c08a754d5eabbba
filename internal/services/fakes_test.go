package services

import (
	"bytes"
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"jobza_backend/internal/email"
	"jobza_backend/internal/events"
	"jobza_backend/internal/models"
	"jobza_backend/internal/repositories"
	"jobza_backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	runInTx = func(db *gorm.DB, fn func(tx *gorm.DB) error) error { return fn(db) }
	os.Exit(m.Run())
}

// memDB - общая память для всех фейковых репозиториев
type memDB struct {
	mu          sync.Mutex
	users       map[string]*models.User
	profiles    map[string]models.RoleProfile
	documents   map[string]*models.Document
	connections map[string]*models.ConnectionRequest
	tokens      map[string]*models.RefreshToken

	statusWrites int
}

func newMemDB() *memDB {
	return &memDB{
		users:       make(map[string]*models.User),
		profiles:    make(map[string]models.RoleProfile),
		documents:   make(map[string]*models.Document),
		connections: make(map[string]*models.ConnectionRequest),
		tokens:      make(map[string]*models.RefreshToken),
	}
}

func (m *memDB) addUser(role models.UserRole, status models.AccountStatus) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{
		BaseModel:  models.BaseModel{ID: uuid.NewString(), CreatedAt: time.Now()},
		Email:      uuid.NewString()[:8] + "@jobza.test",
		AuthMethod: models.AuthMethodLocal,
		Role:       role,
		Status:     status,
	}
	m.users[u.ID] = u
	return u
}

func (m *memDB) setProfile(p models.RoleProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.OwnerID()] = p
}

func (m *memDB) addDocument(userID string, label models.DocumentLabel, status models.DocumentStatus) *models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &models.Document{
		BaseModel:  models.BaseModel{ID: uuid.NewString(), CreatedAt: time.Now()},
		UserID:     userID,
		Label:      label,
		Status:     status,
		StorageKey: "documents/" + userID + "/" + string(label),
	}
	if status == models.DocumentStatusRejected {
		d.RejectionReason = "unreadable"
	}
	m.documents[d.ID] = d
	return d
}

func (m *memDB) status(userID string) models.AccountStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID].Status
}

// --- users ---

type fakeUserRepo struct{ m *memDB }

func (r fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r fakeUserRepo) findBy(match func(*models.User) bool) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.findBy(func(u *models.User) bool { return u.Email == email })
}

func (r fakeUserRepo) FindByVerificationToken(_ *gorm.DB, token string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return token != "" && u.VerificationToken == token })
}

func (r fakeUserRepo) FindByResetToken(_ *gorm.DB, token string) (*models.User, error) {
	return r.findBy(func(u *models.User) bool { return token != "" && u.ResetToken == token })
}

func (r fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.m.users[user.ID] = &cp
	return nil
}

func (r fakeUserRepo) Update(_ *gorm.DB, user *models.User) error {
	return r.mutate(user.ID, func(u *models.User) {
		u.PasswordHash = user.PasswordHash
		u.AuthMethod = user.AuthMethod
		u.IsVerified = user.IsVerified
		u.VerificationToken = user.VerificationToken
		u.ResetToken = user.ResetToken
		u.ResetTokenExp = user.ResetTokenExp
	})
}

func (r fakeUserRepo) UpdateStatus(_ *gorm.DB, userID string, status models.AccountStatus) error {
	return r.mutate(userID, func(u *models.User) {
		u.Status = status
		r.m.statusWrites++
	})
}

func (r fakeUserRepo) SetSignatureUploaded(_ *gorm.DB, userID string) error {
	return r.mutate(userID, func(u *models.User) { u.SignatureUploaded = true })
}

func (r fakeUserRepo) VerifyUser(_ *gorm.DB, userID string) error {
	return r.mutate(userID, func(u *models.User) {
		u.IsVerified = true
		u.VerificationToken = ""
	})
}

func (r fakeUserRepo) mutate(id string, fn func(*models.User)) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	fn(u)
	return nil
}

func (r fakeUserRepo) Delete(_ *gorm.DB, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.m.users, userID)
	return nil
}

func (r fakeUserRepo) FindWithFilter(_ *gorm.DB, f repositories.UserFilter) ([]models.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.User
	for _, u := range r.m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(u.Email, strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, int64(len(out)), nil
}

func (r fakeUserRepo) FindByRole(_ *gorm.DB, role models.UserRole) ([]models.User, error) {
	users, _, err := r.FindWithFilter(nil, repositories.UserFilter{Role: role})
	return users, err
}

func (r fakeUserRepo) CountByRoleAndStatus(_ *gorm.DB) ([]repositories.RoleStatusCount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	counts := map[[2]string]int64{}
	for _, u := range r.m.users {
		counts[[2]string{string(u.Role), string(u.Status)}]++
	}
	var rows []repositories.RoleStatusCount
	for k, v := range counts {
		rows = append(rows, repositories.RoleStatusCount{Role: models.UserRole(k[0]), Status: models.AccountStatus(k[1]), Count: v})
	}
	return rows, nil
}

// --- profiles ---

type fakeProfileRepo struct {
	m     *memDB
	stubs int
}

func (r *fakeProfileRepo) FindByUserID(_ *gorm.DB, role models.UserRole, userID string) (models.RoleProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	switch p.(type) {
	case *models.WorkerProfile:
		if role != models.UserRoleWorker {
			return nil, repositories.ErrProfileNotFound
		}
	case *models.EmployerProfile:
		if role != models.UserRoleEmployer {
			return nil, repositories.ErrProfileNotFound
		}
	case *models.AgencyProfile:
		if role != models.UserRoleAgency {
			return nil, repositories.ErrProfileNotFound
		}
	}
	return p, nil
}

func (r *fakeProfileRepo) CreateStub(_ *gorm.DB, role models.UserRole, userID, email string) (models.RoleProfile, error) {
	var p models.RoleProfile
	switch role {
	case models.UserRoleWorker:
		p = &models.WorkerProfile{UserID: userID, Email: email}
	case models.UserRoleEmployer:
		p = &models.EmployerProfile{UserID: userID, Email: email}
	case models.UserRoleAgency:
		p = &models.AgencyProfile{UserID: userID, Email: email}
	default:
		return nil, repositories.ErrNoProfileForRole
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.profiles[userID]; ok {
		return nil, repositories.ErrProfileAlreadyExists
	}
	r.m.profiles[userID] = p
	r.stubs++
	return p, nil
}

func (r *fakeProfileRepo) DeleteByUserID(_ *gorm.DB, _ models.UserRole, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.profiles, userID)
	return nil
}

func (r *fakeProfileRepo) FindWorkerByUserID(db *gorm.DB, userID string) (*models.WorkerProfile, error) {
	p, err := r.FindByUserID(db, models.UserRoleWorker, userID)
	if err != nil {
		return nil, err
	}
	return p.(*models.WorkerProfile), nil
}

func (r *fakeProfileRepo) FindEmployerByUserID(db *gorm.DB, userID string) (*models.EmployerProfile, error) {
	p, err := r.FindByUserID(db, models.UserRoleEmployer, userID)
	if err != nil {
		return nil, err
	}
	return p.(*models.EmployerProfile), nil
}

func (r *fakeProfileRepo) FindAgencyByUserID(db *gorm.DB, userID string) (*models.AgencyProfile, error) {
	p, err := r.FindByUserID(db, models.UserRoleAgency, userID)
	if err != nil {
		return nil, err
	}
	return p.(*models.AgencyProfile), nil
}

func (r *fakeProfileRepo) UpdateWorker(_ *gorm.DB, userID string, updates map[string]interface{}) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[userID].(*models.WorkerProfile)
	if !ok {
		return repositories.ErrProfileNotFound
	}
	applyPersonal(updates, &p.Name, &p.PhoneNumber, &p.Country, &p.Nationality, &p.Gender)
	return nil
}

func (r *fakeProfileRepo) UpdateWorkerSkills(_ *gorm.DB, userID string, skills []string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[userID].(*models.WorkerProfile)
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.SkillSet = skills
	return nil
}

func (r *fakeProfileRepo) UpdateEmployer(_ *gorm.DB, userID string, updates map[string]interface{}) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[userID].(*models.EmployerProfile)
	if !ok {
		return repositories.ErrProfileNotFound
	}
	var gender string
	applyPersonal(updates, &p.Name, &p.PhoneNumber, &p.Country, &p.Nationality, &gender)
	return nil
}

func (r *fakeProfileRepo) UpdateAgency(_ *gorm.DB, userID string, updates map[string]interface{}) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[userID].(*models.AgencyProfile)
	if !ok {
		return repositories.ErrProfileNotFound
	}
	applyPersonal(updates, &p.Name, &p.PhoneNumber, &p.Country, &p.Nationality, &p.Gender)
	return nil
}

func applyPersonal(updates map[string]interface{}, name, phone, country, nationality, gender *string) {
	targets := map[string]*string{
		"name":         name,
		"phone_number": phone,
		"country":      country,
		"nationality":  nationality,
		"gender":       gender,
	}
	for col, ptr := range targets {
		if v, ok := updates[col].(string); ok {
			*ptr = v
		}
	}
}

func (r *fakeProfileRepo) SearchApprovedWorkers(_ *gorm.DB, c repositories.WorkerSearchCriteria) ([]models.WorkerProfile, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.WorkerProfile
	for id, p := range r.m.profiles {
		w, ok := p.(*models.WorkerProfile)
		if !ok || r.m.users[id] == nil || r.m.users[id].Status != models.AccountStatusApproved {
			continue
		}
		if c.Country != "" && !strings.EqualFold(w.Country, c.Country) {
			continue
		}
		out = append(out, *w)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProfileRepo) FindApprovedWorker(_ *gorm.DB, userID string) (*models.WorkerProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	w, ok := r.m.profiles[userID].(*models.WorkerProfile)
	if !ok || r.m.users[userID] == nil || r.m.users[userID].Status != models.AccountStatusApproved {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *w
	return &cp, nil
}

// --- documents ---

type fakeDocumentRepo struct{ m *memDB }

func (r fakeDocumentRepo) Create(_ *gorm.DB, doc *models.Document) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.CreatedAt = time.Now()
	cp := *doc
	r.m.documents[doc.ID] = &cp
	return nil
}

func (r fakeDocumentRepo) FindByID(_ *gorm.DB, id string) (*models.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.documents[id]
	if !ok {
		return nil, repositories.ErrDocumentNotFound
	}
	cp := *d
	return &cp, nil
}

func (r fakeDocumentRepo) FindByUser(_ *gorm.DB, userID string) ([]models.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	docs := []models.Document{}
	for _, d := range r.m.documents {
		if d.UserID == userID {
			docs = append(docs, *d)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Label < docs[j].Label })
	return docs, nil
}

func (r fakeDocumentRepo) FindByUserAndLabel(_ *gorm.DB, userID string, label models.DocumentLabel) (*models.Document, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, d := range r.m.documents {
		if d.UserID == userID && d.Label == label {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repositories.ErrDocumentNotFound
}

func (r fakeDocumentRepo) FindPending(_ *gorm.DB, page, pageSize int) ([]models.Document, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var docs []models.Document
	for _, d := range r.m.documents {
		if d.Status == models.DocumentStatusPending {
			docs = append(docs, *d)
		}
	}
	return docs, int64(len(docs)), nil
}

func (r fakeDocumentRepo) UpdateJudgment(_ *gorm.DB, id string, status models.DocumentStatus, reason, reviewerID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	d, ok := r.m.documents[id]
	if !ok {
		return repositories.ErrDocumentNotFound
	}
	if d.Status != models.DocumentStatusPending {
		return repositories.ErrDocumentAlreadyJudged
	}
	now := time.Now()
	d.Status = status
	d.RejectionReason = reason
	d.ReviewedBy = &reviewerID
	d.ReviewedAt = &now
	return nil
}

func (r fakeDocumentRepo) Delete(_ *gorm.DB, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.documents[id]; !ok {
		return repositories.ErrDocumentNotFound
	}
	delete(r.m.documents, id)
	return nil
}

func (r fakeDocumentRepo) DeleteByUser(_ *gorm.DB, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, d := range r.m.documents {
		if d.UserID == userID {
			delete(r.m.documents, id)
		}
	}
	return nil
}

// --- connections ---

type fakeConnectionRepo struct{ m *memDB }

func (r fakeConnectionRepo) Create(_ *gorm.DB, req *models.ConnectionRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	cp := *req
	r.m.connections[req.ID] = &cp
	return nil
}

func (r fakeConnectionRepo) FindByID(_ *gorm.DB, id string) (*models.ConnectionRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.connections[id]
	if !ok {
		return nil, repositories.ErrConnectionNotFound
	}
	cp := *c
	return &cp, nil
}

func (r fakeConnectionRepo) HasPendingBetween(_ *gorm.DB, a, b string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.connections {
		if c.Status != models.ConnectionStatusPending {
			continue
		}
		if (c.SenderID == a && c.ReceiverID == b) || (c.SenderID == b && c.ReceiverID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeConnectionRepo) FindForUser(_ *gorm.DB, f repositories.ConnectionFilter) ([]models.ConnectionRequest, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.ConnectionRequest
	for _, c := range r.m.connections {
		switch f.Direction {
		case "sent":
			if c.SenderID != f.UserID {
				continue
			}
		case "received":
			if c.ReceiverID != f.UserID {
				continue
			}
		default:
			if c.SenderID != f.UserID && c.ReceiverID != f.UserID {
				continue
			}
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r fakeConnectionRepo) UpdateStatus(_ *gorm.DB, id string, status models.ConnectionStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.connections[id]
	if !ok || c.Status != models.ConnectionStatusPending {
		return repositories.ErrConnectionNotFound
	}
	now := time.Now()
	c.Status = status
	c.RespondedAt = &now
	return nil
}

func (r fakeConnectionRepo) DeleteByUser(_ *gorm.DB, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, c := range r.m.connections {
		if c.SenderID == userID || c.ReceiverID == userID {
			delete(r.m.connections, id)
		}
	}
	return nil
}

// --- refresh tokens ---

type fakeTokenRepo struct{ m *memDB }

func (r fakeTokenRepo) Create(_ *gorm.DB, t *models.RefreshToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *t
	r.m.tokens[t.Token] = &cp
	return nil
}

func (r fakeTokenRepo) FindValid(_ *gorm.DB, token string) (*models.RefreshToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t, ok := r.m.tokens[token]
	if !ok || time.Now().After(t.ExpiresAt) {
		return nil, repositories.ErrRefreshTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (r fakeTokenRepo) Delete(_ *gorm.DB, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.tokens, token)
	return nil
}

func (r fakeTokenRepo) DeleteByUser(_ *gorm.DB, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for k, t := range r.m.tokens {
		if t.UserID == userID {
			delete(r.m.tokens, k)
		}
	}
	return nil
}

func (r fakeTokenRepo) DeleteExpired(_ *gorm.DB) (int64, error) { return 0, nil }

// --- infrastructure ---

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage { return &memStorage{objects: make(map[string][]byte)} }

func (s *memStorage) Save(_ context.Context, key string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStorage) URL(key string) string { return "/files/" + key }

func (s *memStorage) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return s.URL(key), nil
}

func (s *memStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type sentMail struct {
	To       []string
	Template string
	Data     email.TemplateData
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(*email.Email) error { return nil }

func (m *recordingMailer) SendTemplate(to []string, _ string, templateName string, data email.TemplateData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Template: templateName, Data: data})
	return nil
}

func (m *recordingMailer) Validate() error { return nil }
func (m *recordingMailer) Close() error    { return nil }

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.StatusChanged
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, evt events.StatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) all() []events.StatusChanged {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.StatusChanged(nil), p.events...)
}

// fixture собирает все сервисы поверх памяти
type fixture struct {
	db        *memDB
	users     fakeUserRepo
	profiles  *fakeProfileRepo
	documents fakeDocumentRepo
	conns     fakeConnectionRepo
	tokens    fakeTokenRepo
	storage   *memStorage
	mailer    *recordingMailer
	publisher *recordingPublisher
	statuses  *StatusDispatcher
}

func newFixture() *fixture {
	m := newMemDB()
	f := &fixture{
		db:        m,
		users:     fakeUserRepo{m},
		profiles:  &fakeProfileRepo{m: m},
		documents: fakeDocumentRepo{m},
		conns:     fakeConnectionRepo{m},
		tokens:    fakeTokenRepo{m},
		storage:   newMemStorage(),
		mailer:    &recordingMailer{},
		publisher: &recordingPublisher{},
	}
	f.statuses = NewStatusDispatcher(DefaultRoleRules(), StatusEngineDeps{
		Accounts:  f.users,
		Profiles:  f.profiles,
		Documents: f.documents,
		Publisher: f.publisher,
	})
	return f
}

func (f *fixture) engine(role models.UserRole) ProfileStatusEngine {
	e, err := f.statuses.ForRole(string(role))
	if err != nil {
		panic(err)
	}
	return e
}

func (f *fixture) adminService() AdminService {
	return NewAdminService(f.users, f.profiles, f.documents, f.conns, f.tokens, f.storage, f.mailer, f.statuses)
}

func (f *fixture) documentService(limits UploadLimits) DocumentService {
	return NewDocumentService(f.users, f.documents, f.storage, f.statuses, limits)
}

func (f *fixture) profileService() ProfileService {
	return NewProfileService(f.users, f.profiles, f.statuses)
}

func (f *fixture) connectionService() ConnectionService {
	return NewConnectionService(f.users, f.conns)
}

func (f *fixture) authService() AuthService {
	return NewAuthService(f.users, f.profiles, f.tokens, f.mailer, TokenSettings{
		Secret:     "test-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		AppBaseURL: "http://localhost:4000",
	})
}

// completeWorker - работник с заполненным профилем, навыками и всеми документами в статусе docStatus
func (f *fixture) completeWorker(docStatus models.DocumentStatus) *models.User {
	u := f.db.addUser(models.UserRoleWorker, models.AccountStatusNotCompleted)
	f.db.setProfile(&models.WorkerProfile{
		UserID:      u.ID,
		Name:        "Amina",
		PhoneNumber: "+971500000000",
		Country:     "UAE",
		Nationality: "Kenyan",
		Gender:      "female",
		SkillSet:    []string{"cooking"},
	})
	for _, label := range DefaultRoleRules()[models.UserRoleWorker].RequiredDocumentLabels {
		f.db.addDocument(u.ID, label, docStatus)
	}
	return u
}
