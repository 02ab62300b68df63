package usecase_test

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Update(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Profile, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) CountByType(ctx context.Context) (map[domain.UserType]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.UserType]int64), args.Error(1)
}

type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) GetByUserID(ctx context.Context, userID string) (*domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepo) Upsert(ctx context.Context, company *domain.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *MockCompanyRepo) UpdateLogo(ctx context.Context, id, logoURL string) error {
	return m.Called(ctx, id, logoURL).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) FetchOpen(ctx context.Context, limit, offset int) ([]domain.Job, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepo) FetchByCompanyID(ctx context.Context, companyID string) ([]domain.Job, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepo) FetchBySupervisorID(ctx context.Context, supervisorID string) ([]domain.Job, error) {
	args := m.Called(ctx, supervisorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockJobRepo) CountOpen(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepo) FetchByCompanyID(ctx context.Context, companyID string) ([]domain.Event, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepo) FetchInRange(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepo) Update(ctx context.Context, event *domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEventRepo) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	args := m.Called(ctx, from)
	return args.Get(0).(int64), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.JobApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) FetchByJobID(ctx context.Context, jobID string) ([]domain.JobApplication, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) FetchByPromoterID(ctx context.Context, promoterID string) ([]domain.JobApplication, error) {
	args := m.Called(ctx, promoterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) Approve(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockApplicationRepo) Reject(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockApplicationRepo) CountPendingForCompany(ctx context.Context, companyID string) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMessageRepo) FetchInbox(ctx context.Context, userID string) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepo) FetchSent(ctx context.Context, userID string) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepo) MarkAsRead(ctx context.Context, id, recipientID string) error {
	return m.Called(ctx, id, recipientID).Error(0)
}

func (m *MockMessageRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepo) FetchByUserID(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockNotificationRepo) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRatingRepo struct {
	mock.Mock
}

func (m *MockRatingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	return m.Called(ctx, rating).Error(0)
}

func (m *MockRatingRepo) FetchByRatedID(ctx context.Context, ratedID string) ([]domain.Rating, error) {
	args := m.Called(ctx, ratedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rating), args.Error(1)
}

func (m *MockRatingRepo) FetchByRaterID(ctx context.Context, raterID string) ([]domain.Rating, error) {
	args := m.Called(ctx, raterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rating), args.Error(1)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) FetchByCompanyID(ctx context.Context, companyID string) ([]domain.Payment, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) FetchByPromoterID(ctx context.Context, promoterID string) ([]domain.Payment, error) {
	args := m.Called(ctx, promoterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) TransitionStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *MockPaymentRepo) CalculateEarnings(ctx context.Context, promoterID string) (*domain.Earnings, error) {
	args := m.Called(ctx, promoterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earnings), args.Error(1)
}

func (m *MockPaymentRepo) CreatePayoutRequest(ctx context.Context, req *domain.PayoutRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPaymentRepo) FetchPayoutRequests(ctx context.Context, promoterID string) ([]domain.PayoutRequest, error) {
	args := m.Called(ctx, promoterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayoutRequest), args.Error(1)
}

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepo) FetchTransactions(ctx context.Context, walletID string, limit int) ([]domain.WalletTransaction, error) {
	args := m.Called(ctx, walletID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WalletTransaction), args.Error(1)
}

// Mock auth provider

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) GetSession(ctx context.Context, key string) (*domain.Session, *domain.Identity, error) {
	args := m.Called(ctx, key)
	var s *domain.Session
	var i *domain.Identity
	if args.Get(0) != nil {
		s = args.Get(0).(*domain.Session)
	}
	if args.Get(1) != nil {
		i = args.Get(1).(*domain.Identity)
	}
	return s, i, args.Error(2)
}

func (m *MockAuthClient) OnAuthStateChange(handler func(domain.AuthEvent)) func() {
	m.Called(handler)
	return func() {}
}

func (m *MockAuthClient) SignInWithPassword(ctx context.Context, key, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, key, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthClient) SignUp(ctx context.Context, key, email, password string, attrs domain.ProfileAttributes) (*domain.Session, *domain.Identity, error) {
	args := m.Called(ctx, key, email, password, attrs)
	var s *domain.Session
	var i *domain.Identity
	if args.Get(0) != nil {
		s = args.Get(0).(*domain.Session)
	}
	if args.Get(1) != nil {
		i = args.Get(1).(*domain.Identity)
	}
	return s, i, args.Error(2)
}

func (m *MockAuthClient) SignOut(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockAuthClient) RefreshSession(ctx context.Context, key string) (*domain.Session, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthClient) GetUser(ctx context.Context, key string) (*domain.Identity, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

// spyNotifier records notifications instead of storing them.
type spyNotifier struct {
	domain.NotificationUsecase
	sent []domain.Notification
}

func (s *spyNotifier) Notify(_ context.Context, n domain.Notification) {
	s.sent = append(s.sent, n)
}

type fakeStorage struct {
	paths []string
	err   error
}

func (f *fakeStorage) Upload(_ context.Context, path, _ string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.paths = append(f.paths, path)
	return "https://cdn.example.com/" + path, nil
}

func repoErr(kind domain.ErrorKind) error {
	return &domain.RepoError{Op: "test", Kind: kind, Err: context.DeadlineExceeded}
}
