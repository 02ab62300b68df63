package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/internal/usecase"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/querycache"
	"event-staffing-backend/pkg/security"
	"event-staffing-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCache() *querycache.Cache {
	return querycache.New(nil, time.Minute)
}

func TestEnsureProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Should provision exactly one promoter profile on first login", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := usecase.NewAuthUsecase(new(MockAuthClient), repo, security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil), validation.New())

		repo.On("GetByID", mock.Anything, "user-1").Return(nil, repoErr(domain.KindNotFound)).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil).Once()

		profile, err := uc.EnsureProfile(ctx, domain.Identity{ID: "user-1", Email: "maria.silva@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", profile.ID)
		assert.Equal(t, domain.UserTypePromoter, profile.UserType)
		assert.Equal(t, "maria.silva", profile.FullName)
		repo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("Should use sign-up metadata when present", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := usecase.NewAuthUsecase(new(MockAuthClient), repo, security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil), validation.New())

		repo.On("GetByID", mock.Anything, "user-2").Return(nil, repoErr(domain.KindNotFound))
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

		profile, err := uc.EnsureProfile(ctx, domain.Identity{
			ID:       "user-2",
			Email:    "ops@acme.com",
			Metadata: domain.ProfileAttributes{FullName: "Acme Ops", UserType: domain.UserTypeCompany},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.UserTypeCompany, profile.UserType)
		assert.Equal(t, "Acme Ops", profile.FullName)
	})

	t.Run("Should return an existing profile without creating", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := usecase.NewAuthUsecase(new(MockAuthClient), repo, security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil), validation.New())

		existing := &domain.Profile{ID: "user-3", FullName: "Sam", UserType: domain.UserTypeSupervisor}
		repo.On("GetByID", mock.Anything, "user-3").Return(existing, nil)

		profile, err := uc.EnsureProfile(ctx, domain.Identity{ID: "user-3", Email: "sam@example.com"})
		require.NoError(t, err)
		assert.Same(t, existing, profile)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should re-read the profile when created concurrently", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := usecase.NewAuthUsecase(new(MockAuthClient), repo, security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil), validation.New())

		existing := &domain.Profile{ID: "user-4", FullName: "Lee", UserType: domain.UserTypePromoter}
		repo.On("GetByID", mock.Anything, "user-4").Return(nil, repoErr(domain.KindNotFound)).Once()
		repo.On("Create", mock.Anything, mock.Anything).Return(repoErr(domain.KindDuplicate)).Once()
		repo.On("GetByID", mock.Anything, "user-4").Return(existing, nil).Once()

		profile, err := uc.EnsureProfile(ctx, domain.Identity{ID: "user-4", Email: "lee@example.com"})
		require.NoError(t, err)
		assert.Same(t, existing, profile)
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	invalid := &domain.AuthError{Kind: domain.AuthInvalidCredentials, Status: 400, Message: "Invalid login credentials"}

	t.Run("Should map invalid credentials to a specific message", func(t *testing.T) {
		auth := new(MockAuthClient)
		uc := usecase.NewAuthUsecase(auth, new(MockProfileRepo), security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil), validation.New())
		auth.On("SignInWithPassword", mock.Anything, "key", "ana@example.com", "wrong").Return(nil, invalid)

		_, err := uc.SignIn(ctx, "key", " Ana@Example.com ", "wrong", "10.0.0.1")
		require.Error(t, err)
		assert.Equal(t, "Invalid email or password", err.Error())
		assert.True(t, apperror.Is(err, http.StatusUnauthorized))
	})

	t.Run("Should block after repeated failures without calling the provider", func(t *testing.T) {
		auth := new(MockAuthClient)
		cfg := security.DefaultLoginTrackerConfig()
		cfg.MaxAttempts = 2
		uc := usecase.NewAuthUsecase(auth, new(MockProfileRepo), security.NewLoginTracker(cfg, nil), validation.New())
		auth.On("SignInWithPassword", mock.Anything, "key", "ana@example.com", "wrong").Return(nil, invalid)

		_, err := uc.SignIn(ctx, "key", "ana@example.com", "wrong", "10.0.0.1")
		assert.True(t, apperror.Is(err, http.StatusUnauthorized))
		_, err = uc.SignIn(ctx, "key", "ana@example.com", "wrong", "10.0.0.1")
		assert.True(t, apperror.Is(err, http.StatusTooManyRequests))

		_, err = uc.SignIn(ctx, "key", "ana@example.com", "right", "10.0.0.1")
		assert.True(t, apperror.Is(err, http.StatusTooManyRequests))
		auth.AssertNumberOfCalls(t, "SignInWithPassword", 2)
	})

	t.Run("Should map unconfirmed email and rate limits", func(t *testing.T) {
		auth := new(MockAuthClient)
		uc := usecase.NewAuthUsecase(auth, new(MockProfileRepo), security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil), validation.New())
		auth.On("SignInWithPassword", mock.Anything, "key", "new@example.com", "pw").
			Return(nil, &domain.AuthError{Kind: domain.AuthEmailNotConfirmed})
		auth.On("SignInWithPassword", mock.Anything, "key", "busy@example.com", "pw").
			Return(nil, &domain.AuthError{Kind: domain.AuthRateLimited})

		_, err := uc.SignIn(ctx, "key", "new@example.com", "pw", "")
		assert.Equal(t, "Please confirm your email address before signing in", err.Error())
		_, err = uc.SignIn(ctx, "key", "busy@example.com", "pw", "")
		assert.True(t, apperror.Is(err, http.StatusTooManyRequests))
	})
}

func TestSignUpValidation(t *testing.T) {
	auth := new(MockAuthClient)
	uc := usecase.NewAuthUsecase(auth, new(MockProfileRepo), security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil), validation.New())

	_, err := uc.SignUp(context.Background(), "key", domain.RegisterInput{
		Email:    "not-an-email",
		Password: "123",
		FullName: "A",
		UserType: domain.UserTypeSupervisor,
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, http.StatusBadRequest))
	auth.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUpPendingConfirmation(t *testing.T) {
	auth := new(MockAuthClient)
	profiles := new(MockProfileRepo)
	uc := usecase.NewAuthUsecase(auth, profiles, security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil), validation.New())

	auth.On("SignUp", mock.Anything, "key", "ana@example.com", "secret1", mock.Anything).
		Return(nil, &domain.Identity{ID: "user-1", Email: "ana@example.com"}, nil)

	session, err := uc.SignUp(context.Background(), "key", domain.RegisterInput{
		Email:    "ana@example.com",
		Password: "secret1",
		FullName: "Ana Costa",
		UserType: domain.UserTypePromoter,
	})
	require.NoError(t, err)
	assert.Nil(t, session)
	profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUpLeavesProviderIdentityUntouched(t *testing.T) {
	auth := new(MockAuthClient)
	profiles := new(MockProfileRepo)
	uc := usecase.NewAuthUsecase(auth, profiles, security.NewLoginTracker(security.DefaultLoginTrackerConfig(), nil), validation.New())

	identity := &domain.Identity{ID: "user-1", Email: "events@acme.example"}
	auth.On("SignUp", mock.Anything, "key", "events@acme.example", "secret1", mock.Anything).
		Return(&domain.Session{UserID: "user-1"}, identity, nil)
	profiles.On("GetByID", mock.Anything, "user-1").Return(nil, repoErr(domain.KindNotFound)).Once()
	profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
		return p.UserType == domain.UserTypeCompany && p.FullName == "Acme Events"
	})).Return(nil).Once()

	session, err := uc.SignUp(context.Background(), "key", domain.RegisterInput{
		Email:    "events@acme.example",
		Password: "secret1",
		FullName: "Acme Events",
		UserType: domain.UserTypeCompany,
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	profiles.AssertExpectations(t)

	// the provider's identity may be shared with auth subscribers
	assert.Equal(t, domain.ProfileAttributes{}, identity.Metadata)
}

func openJob(companyID string, available, filled int) *domain.Job {
	return &domain.Job{
		ID:                 "job-1",
		EventID:            "event-1",
		Title:              "Brand Ambassador",
		PositionsAvailable: available,
		PositionsFilled:    filled,
		Status:             domain.JobStatusOpen,
		Event:              &domain.JobEventSummary{ID: "event-1", CompanyID: companyID},
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	setup := func() (*MockApplicationRepo, *MockJobRepo, *MockCompanyRepo, *spyNotifier, domain.ApplicationUsecase) {
		apps, jobs, companies, notifier := new(MockApplicationRepo), new(MockJobRepo), new(MockCompanyRepo), &spyNotifier{}
		uc := usecase.NewApplicationUsecase(apps, jobs, companies, notifier, newCache())
		jobs.On("GetByID", mock.Anything, "job-1").Return(openJob("company-1", 3, 0), nil)
		companies.On("GetByID", mock.Anything, "company-1").Return(&domain.Company{ID: "company-1", UserID: "owner-1"}, nil)
		return apps, jobs, companies, notifier, uc
	}

	t.Run("Should surface the duplicate message on the second application", func(t *testing.T) {
		apps, _, _, notifier, uc := setup()
		apps.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		apps.On("Create", mock.Anything, mock.Anything).Return(repoErr(domain.KindDuplicate)).Once()

		app, err := uc.Apply(ctx, "promoter-1", "job-1", nil)
		require.NoError(t, err)
		assert.Equal(t, "job-1", app.JobID)
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "owner-1", notifier.sent[0].UserID)

		_, err = uc.Apply(ctx, "promoter-1", "job-1", nil)
		require.Error(t, err)
		assert.Equal(t, "You have already applied for this job", err.Error())
		assert.True(t, apperror.Is(err, http.StatusConflict))
	})

	t.Run("Should hide backend details behind a short message", func(t *testing.T) {
		apps, _, _, _, uc := setup()
		apps.On("Create", mock.Anything, mock.Anything).Return(repoErr(domain.KindBackend))

		_, err := uc.Apply(ctx, "promoter-1", "job-1", nil)
		require.Error(t, err)
		assert.Equal(t, "Failed to submit your application", err.Error())
	})

	t.Run("Should refuse jobs without free positions", func(t *testing.T) {
		apps, jobs, companies := new(MockApplicationRepo), new(MockJobRepo), new(MockCompanyRepo)
		uc := usecase.NewApplicationUsecase(apps, jobs, companies, &spyNotifier{}, newCache())
		jobs.On("GetByID", mock.Anything, "job-1").Return(openJob("company-1", 2, 2), nil)

		_, err := uc.Apply(ctx, "promoter-1", "job-1", nil)
		assert.True(t, apperror.Is(err, http.StatusBadRequest))
		apps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReviewApplication(t *testing.T) {
	ctx := context.Background()

	setup := func(ownerCompany string) (*MockApplicationRepo, *spyNotifier, domain.ApplicationUsecase) {
		apps, jobs, companies, notifier := new(MockApplicationRepo), new(MockJobRepo), new(MockCompanyRepo), &spyNotifier{}
		uc := usecase.NewApplicationUsecase(apps, jobs, companies, notifier, newCache())
		apps.On("GetByID", mock.Anything, "app-1").Return(&domain.JobApplication{ID: "app-1", JobID: "job-1", PromoterID: "promoter-1"}, nil)
		companies.On("GetByUserID", mock.Anything, "owner-1").Return(&domain.Company{ID: "company-1", UserID: "owner-1"}, nil)
		jobs.On("GetByID", mock.Anything, "job-1").Return(openJob(ownerCompany, 1, 0), nil)
		return apps, notifier, uc
	}

	t.Run("Should approve and notify the promoter", func(t *testing.T) {
		apps, notifier, uc := setup("company-1")
		apps.On("Approve", mock.Anything, "app-1").Return(nil)

		require.NoError(t, uc.ReviewApplication(ctx, "owner-1", "app-1", true))
		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "promoter-1", notifier.sent[0].UserID)
		assert.Equal(t, "Application approved", notifier.sent[0].Title)
	})

	t.Run("Should report a full job", func(t *testing.T) {
		apps, notifier, uc := setup("company-1")
		apps.On("Approve", mock.Anything, "app-1").Return(domain.ErrJobFull)

		err := uc.ReviewApplication(ctx, "owner-1", "app-1", true)
		assert.True(t, apperror.Is(err, http.StatusConflict))
		assert.Empty(t, notifier.sent)
	})

	t.Run("Should forbid reviewing another company's job", func(t *testing.T) {
		apps, _, uc := setup("company-2")

		err := uc.ReviewApplication(ctx, "owner-1", "app-1", false)
		assert.True(t, apperror.Is(err, http.StatusForbidden))
		apps.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything)
	})
}

func TestRatingSubmitValidation(t *testing.T) {
	comment := "Great work"
	valid := domain.RatingInput{JobID: "job-1", RaterID: "company-user", RatedID: "promoter-1", Rating: 5, Comment: &comment}

	invalid := []struct {
		name   string
		mutate func(in *domain.RatingInput)
	}{
		{"rating zero", func(in *domain.RatingInput) { in.Rating = 0 }},
		{"rating six", func(in *domain.RatingInput) { in.Rating = 6 }},
		{"missing job", func(in *domain.RatingInput) { in.JobID = "" }},
		{"missing rater", func(in *domain.RatingInput) { in.RaterID = "" }},
		{"missing rated", func(in *domain.RatingInput) { in.RatedID = "" }},
	}

	for _, tt := range invalid {
		t.Run("Should reject "+tt.name+" without a database call", func(t *testing.T) {
			repo := new(MockRatingRepo)
			uc := usecase.NewRatingUsecase(repo, &spyNotifier{}, validation.New())

			input := valid
			tt.mutate(&input)
			_, err := uc.Submit(context.Background(), input)
			assert.True(t, apperror.Is(err, http.StatusBadRequest))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	for score := 1; score <= 5; score++ {
		repo := new(MockRatingRepo)
		uc := usecase.NewRatingUsecase(repo, &spyNotifier{}, validation.New())
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Rating")).Return(nil)

		input := valid
		input.Rating = score
		rating, err := uc.Submit(context.Background(), input)
		require.NoError(t, err, "score %d", score)
		assert.Equal(t, score, rating.Rating)
	}
}

func TestRatingSummary(t *testing.T) {
	repo := new(MockRatingRepo)
	uc := usecase.NewRatingUsecase(repo, &spyNotifier{}, validation.New())
	repo.On("FetchByRatedID", mock.Anything, "promoter-1").Return([]domain.Rating{{Rating: 4}, {Rating: 5}}, nil)

	summary, err := uc.ListForUser(context.Background(), "promoter-1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary.Average)
	assert.Equal(t, 2, summary.Count)
}

func TestRequestPayout(t *testing.T) {
	ctx := context.Background()

	invalid := []domain.PayoutInput{
		{Amount: 0, BankDetails: "PT50 0002 0123"},
		{Amount: -10, BankDetails: "PT50 0002 0123"},
		{Amount: 50, BankDetails: ""},
		{Amount: 50, BankDetails: "   \t "},
	}
	for _, input := range invalid {
		repo := new(MockPaymentRepo)
		uc := usecase.NewPaymentUsecase(repo, new(MockJobRepo), new(MockCompanyRepo), &spyNotifier{}, newCache(), validation.New())

		_, err := uc.RequestPayout(ctx, "promoter-1", input)
		assert.True(t, apperror.Is(err, http.StatusBadRequest), "input %+v", input)
		assert.Empty(t, repo.Calls, "no database call for %+v", input)
	}

	t.Run("Should refuse more than the available amount", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		uc := usecase.NewPaymentUsecase(repo, new(MockJobRepo), new(MockCompanyRepo), &spyNotifier{}, newCache(), validation.New())
		repo.On("CalculateEarnings", mock.Anything, "promoter-1").Return(&domain.Earnings{AvailableForPayout: 40}, nil)

		_, err := uc.RequestPayout(ctx, "promoter-1", domain.PayoutInput{Amount: 50, BankDetails: "PT50 0002 0123"})
		assert.True(t, apperror.Is(err, http.StatusBadRequest))
		repo.AssertNotCalled(t, "CreatePayoutRequest", mock.Anything, mock.Anything)
	})

	t.Run("Should create a pending payout request", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		uc := usecase.NewPaymentUsecase(repo, new(MockJobRepo), new(MockCompanyRepo), &spyNotifier{}, newCache(), validation.New())
		repo.On("CalculateEarnings", mock.Anything, "promoter-1").Return(&domain.Earnings{AvailableForPayout: 100}, nil)
		repo.On("CreatePayoutRequest", mock.Anything, mock.AnythingOfType("*domain.PayoutRequest")).Return(nil).Run(func(args mock.Arguments) {
			req := args.Get(1).(*domain.PayoutRequest)
			assert.Equal(t, "PT50 0002 0123", req.BankDetails)
		})

		req, err := uc.RequestPayout(ctx, "promoter-1", domain.PayoutInput{Amount: 100, BankDetails: "  PT50 0002 0123 "})
		require.NoError(t, err)
		assert.Equal(t, 100.0, req.Amount)
	})
}

func TestRequestProcessing(t *testing.T) {
	ctx := context.Background()

	setup := func(payment *domain.Payment) (*MockPaymentRepo, domain.PaymentUsecase) {
		repo, companies := new(MockPaymentRepo), new(MockCompanyRepo)
		uc := usecase.NewPaymentUsecase(repo, new(MockJobRepo), companies, &spyNotifier{}, newCache(), validation.New())
		companies.On("GetByUserID", mock.Anything, "owner-1").Return(&domain.Company{ID: "company-1"}, nil)
		repo.On("GetByID", mock.Anything, "pay-1").Return(payment, nil)
		return repo, uc
	}

	t.Run("Should move pending to processing", func(t *testing.T) {
		repo, uc := setup(&domain.Payment{ID: "pay-1", CompanyID: "company-1", PromoterID: "promoter-1", Status: domain.PaymentStatusPending})
		repo.On("TransitionStatus", mock.Anything, "pay-1", domain.PaymentStatusPending, domain.PaymentStatusProcessing).Return(nil)

		require.NoError(t, uc.RequestProcessing(ctx, "owner-1", "pay-1"))
	})

	t.Run("Should refuse payments past pending", func(t *testing.T) {
		repo, uc := setup(&domain.Payment{ID: "pay-1", CompanyID: "company-1", Status: domain.PaymentStatusCompleted})

		err := uc.RequestProcessing(ctx, "owner-1", "pay-1")
		assert.True(t, apperror.Is(err, http.StatusConflict))
		repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should refuse another company's payment", func(t *testing.T) {
		_, uc := setup(&domain.Payment{ID: "pay-1", CompanyID: "company-9", Status: domain.PaymentStatusPending})

		err := uc.RequestProcessing(ctx, "owner-1", "pay-1")
		assert.True(t, apperror.Is(err, http.StatusForbidden))
	})
}

func TestMarkAsReadIdempotent(t *testing.T) {
	ctx := context.Background()

	t.Run("messages", func(t *testing.T) {
		repo := new(MockMessageRepo)
		uc := usecase.NewMessageUsecase(repo, &spyNotifier{}, newCache(), validation.New())
		repo.On("MarkAsRead", mock.Anything, "msg-1", "user-1").Return(nil)

		assert.NoError(t, uc.MarkAsRead(ctx, "user-1", "msg-1"))
		assert.NoError(t, uc.MarkAsRead(ctx, "user-1", "msg-1"))
		repo.AssertNumberOfCalls(t, "MarkAsRead", 2)
	})

	t.Run("notifications", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		uc := usecase.NewNotificationUsecase(repo, newCache())
		repo.On("MarkAsRead", mock.Anything, "n-1", "user-1").Return(nil)

		assert.NoError(t, uc.MarkAsRead(ctx, "user-1", "n-1"))
		assert.NoError(t, uc.MarkAsRead(ctx, "user-1", "n-1"))
	})

	t.Run("someone else's message is not found", func(t *testing.T) {
		repo := new(MockMessageRepo)
		uc := usecase.NewMessageUsecase(repo, &spyNotifier{}, newCache(), validation.New())
		repo.On("MarkAsRead", mock.Anything, "msg-1", "intruder").Return(repoErr(domain.KindNotFound))

		err := uc.MarkAsRead(ctx, "intruder", "msg-1")
		assert.True(t, apperror.Is(err, http.StatusNotFound))
	})
}

func TestUnreadCountIsCachedUntilRead(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMessageRepo)
	uc := usecase.NewMessageUsecase(repo, &spyNotifier{}, newCache(), validation.New())
	repo.On("CountUnread", mock.Anything, "user-1").Return(int64(3), nil).Once()
	repo.On("CountUnread", mock.Anything, "user-1").Return(int64(2), nil).Once()
	repo.On("MarkAsRead", mock.Anything, "msg-1", "user-1").Return(nil)

	n, err := uc.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	n, _ = uc.UnreadCount(ctx, "user-1")
	assert.Equal(t, int64(3), n)

	require.NoError(t, uc.MarkAsRead(ctx, "user-1", "msg-1"))
	n, _ = uc.UnreadCount(ctx, "user-1")
	assert.Equal(t, int64(2), n)
	repo.AssertNumberOfCalls(t, "CountUnread", 2)
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMessageRepo)
	notifier := &spyNotifier{}
	uc := usecase.NewMessageUsecase(repo, notifier, newCache(), validation.New())

	_, err := uc.Send(ctx, "11111111-1111-1111-1111-111111111111", domain.MessageInput{
		RecipientID: "22222222-2222-2222-2222-222222222222",
		Content:     "   ",
	})
	assert.True(t, apperror.Is(err, http.StatusBadRequest))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)
	msg, err := uc.Send(ctx, "11111111-1111-1111-1111-111111111111", domain.MessageInput{
		RecipientID: "22222222-2222-2222-2222-222222222222",
		Content:     " See you at 9 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "See you at 9", msg.Content)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, domain.NotificationMessage, notifier.sent[0].Type)
}
