package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/internal/usecase"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func companyPayments() []domain.Payment {
	title, name := "Bar staff", "Ana Costa"
	return []domain.Payment{
		{
			ID:           "pay-1",
			CompanyID:    "company-1",
			PromoterID:   "promoter-1",
			Amount:       120.5,
			Status:       domain.PaymentStatusPending,
			CreatedAt:    time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
			JobTitle:     &title,
			PromoterName: &name,
		},
	}
}

func TestExportCompanyPayments(t *testing.T) {
	ctx := context.Background()

	setup := func() domain.PaymentUsecase {
		repo, companies := new(MockPaymentRepo), new(MockCompanyRepo)
		companies.On("GetByUserID", mock.Anything, "owner-1").Return(&domain.Company{ID: "company-1"}, nil)
		repo.On("FetchByCompanyID", mock.Anything, "company-1").Return(companyPayments(), nil)
		return usecase.NewPaymentUsecase(repo, new(MockJobRepo), companies, &spyNotifier{}, newCache(), validation.New())
	}

	t.Run("csv", func(t *testing.T) {
		data, filename, err := setup().ExportCompanyPayments(ctx, "owner-1", "csv")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(filename, ".csv"))

		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"DATE", "JOB", "PROMOTER", "AMOUNT", "STATUS", "PAYMENT ID"}, records[0])
		assert.Equal(t, []string{"2026-05-02", "Bar staff", "Ana Costa", "120.50", "pending", "pay-1"}, records[1])
	})

	t.Run("xlsx", func(t *testing.T) {
		data, filename, err := setup().ExportCompanyPayments(ctx, "owner-1", "")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Payments")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "PROMOTER", rows[0][2])
		assert.Equal(t, "Ana Costa", rows[1][2])
		assert.Equal(t, "pay-1", rows[1][5])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := setup().ExportCompanyPayments(ctx, "owner-1", "pdf")
		assert.True(t, apperror.Is(err, http.StatusBadRequest))
	})
}

func TestWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return an empty wallet when none exists", func(t *testing.T) {
		repo := new(MockWalletRepo)
		uc := usecase.NewWalletUsecase(repo, nil)
		repo.On("GetByUserID", mock.Anything, "user-1").Return(nil, repoErr(domain.KindNotFound))

		wallet, err := uc.GetWallet(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", wallet.UserID)
		assert.Zero(t, wallet.Balance)

		txs, err := uc.ListTransactions(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, txs)
		repo.AssertNotCalled(t, "FetchTransactions", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should assemble the overview", func(t *testing.T) {
		repo, payments := new(MockWalletRepo), new(MockPaymentRepo)
		paymentUC := usecase.NewPaymentUsecase(payments, new(MockJobRepo), new(MockCompanyRepo), &spyNotifier{}, newCache(), validation.New())
		uc := usecase.NewWalletUsecase(repo, paymentUC)

		repo.On("GetByUserID", mock.Anything, "user-1").Return(&domain.Wallet{ID: "w-1", UserID: "user-1", Balance: 80}, nil)
		repo.On("FetchTransactions", mock.Anything, "w-1", 50).Return([]domain.WalletTransaction{{ID: "tx-1", Amount: 80, Type: domain.WalletTxCredit}}, nil)
		payments.On("CalculateEarnings", mock.Anything, "user-1").Return(&domain.Earnings{TotalEarned: 100, AvailableForPayout: 80}, nil)
		payments.On("FetchPayoutRequests", mock.Anything, "user-1").Return([]domain.PayoutRequest{}, nil)

		overview, err := uc.GetOverview(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 80.0, overview.Wallet.Balance)
		assert.Len(t, overview.Transactions, 1)
		assert.Equal(t, 100.0, overview.Earnings.TotalEarned)
	})
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("Should store a downscaled JPEG and save its URL", func(t *testing.T) {
		repo, storage := new(MockProfileRepo), &fakeStorage{}
		uc := usecase.NewProfileUsecase(repo, storage, validation.New())
		repo.On("Update", mock.Anything, "user-1", mock.MatchedBy(func(u domain.ProfileUpdate) bool {
			return u.AvatarURL != nil && strings.HasPrefix(*u.AvatarURL, "https://cdn.example.com/avatars/user-1/")
		})).Return(&domain.Profile{ID: "user-1"}, nil)

		_, err := uc.UploadAvatar(ctx, "user-1", domain.FileUpload{Filename: "me.png", Data: pngBytes(t, 900, 600)})
		require.NoError(t, err)
		require.Len(t, storage.paths, 1)
		assert.True(t, strings.HasSuffix(storage.paths[0], ".jpg"))
	})

	t.Run("Should reject a file that is not an image", func(t *testing.T) {
		repo, storage := new(MockProfileRepo), &fakeStorage{}
		uc := usecase.NewProfileUsecase(repo, storage, validation.New())

		_, err := uc.UploadAvatar(ctx, "user-1", domain.FileUpload{Filename: "me.png", Data: []byte("not an image at all")})
		assert.True(t, apperror.Is(err, http.StatusBadRequest))
		assert.Empty(t, storage.paths)
	})

	t.Run("Should refuse uploads without storage", func(t *testing.T) {
		uc := usecase.NewProfileUsecase(new(MockProfileRepo), nil, validation.New())

		_, err := uc.UploadAvatar(ctx, "user-1", domain.FileUpload{Filename: "me.png", Data: pngBytes(t, 10, 10)})
		assert.True(t, apperror.Is(err, http.StatusServiceUnavailable))
	})
}

func TestUpdateProfileKeepsRole(t *testing.T) {
	repo := new(MockProfileRepo)
	uc := usecase.NewProfileUsecase(repo, nil, validation.New())
	name := "  Ana Costa "
	repo.On("Update", mock.Anything, "user-1", mock.MatchedBy(func(u domain.ProfileUpdate) bool {
		return u.FullName != nil && *u.FullName == "Ana Costa" && u.AvatarURL == nil
	})).Return(&domain.Profile{ID: "user-1", FullName: "Ana Costa", UserType: domain.UserTypePromoter}, nil)

	profile, err := uc.UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, domain.UserTypePromoter, profile.UserType)
}

func TestJobOwnership(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	input := domain.JobInput{
		EventID:            "3f1c7d4e-8a2b-4c5d-9e6f-0a1b2c3d4e5f",
		Title:              "Promoter",
		PositionsAvailable: 2,
		ShiftStart:         start,
		ShiftEnd:           start.Add(6 * time.Hour),
		Requirements:       []string{" Fluent English ", "", "  "},
	}

	setup := func(eventCompany string) (*MockJobRepo, domain.JobUsecase) {
		jobs, events, companies := new(MockJobRepo), new(MockEventRepo), new(MockCompanyRepo)
		companies.On("GetByUserID", mock.Anything, "owner-1").Return(&domain.Company{ID: "company-1"}, nil)
		events.On("GetByID", mock.Anything, input.EventID).Return(&domain.Event{ID: input.EventID, CompanyID: eventCompany}, nil)
		return jobs, usecase.NewJobUsecase(jobs, events, companies, newCache(), validation.New())
	}

	t.Run("Should create an open job with trimmed requirements", func(t *testing.T) {
		jobs, uc := setup("company-1")
		jobs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil)

		job, err := uc.CreateJob(ctx, "owner-1", input)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusOpen, job.Status)
		assert.Equal(t, []string{"Fluent English"}, job.Requirements)
	})

	t.Run("Should forbid jobs on another company's event", func(t *testing.T) {
		jobs, uc := setup("company-2")

		_, err := uc.CreateJob(ctx, "owner-1", input)
		assert.True(t, apperror.Is(err, http.StatusForbidden))
		jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should refuse to reopen a full job", func(t *testing.T) {
		jobs, uc := setup("company-1")
		jobs.On("GetByID", mock.Anything, "job-1").Return(openJob("company-1", 2, 2), nil)

		err := uc.UpdateJobStatus(ctx, "owner-1", "job-1", domain.JobStatusOpen)
		assert.True(t, apperror.Is(err, http.StatusBadRequest))
		jobs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListOpenJobsClampsPaging(t *testing.T) {
	jobs := new(MockJobRepo)
	uc := usecase.NewJobUsecase(jobs, new(MockEventRepo), new(MockCompanyRepo), newCache(), validation.New())
	jobs.On("FetchOpen", mock.Anything, 100, 0).Return([]domain.Job{*openJob("company-1", 3, 1)}, int64(1), nil).Once()

	list, total, err := uc.ListOpenJobs(context.Background(), 0, 500)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), total)

	// served from cache
	_, _, err = uc.ListOpenJobs(context.Background(), 1, 100)
	require.NoError(t, err)
	jobs.AssertNumberOfCalls(t, "FetchOpen", 1)
}

func TestListCalendar(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	t.Run("Should reject an inverted range", func(t *testing.T) {
		uc := usecase.NewEventUsecase(new(MockEventRepo), new(MockCompanyRepo), newCache(), validation.New())
		_, err := uc.ListCalendar(ctx, domain.Viewer{UserID: "u", UserType: domain.UserTypePromoter}, to, from)
		assert.True(t, apperror.Is(err, http.StatusBadRequest))
	})

	t.Run("Should filter by the promoter's approved shifts", func(t *testing.T) {
		events := new(MockEventRepo)
		uc := usecase.NewEventUsecase(events, new(MockCompanyRepo), newCache(), validation.New())
		events.On("FetchInRange", mock.Anything, domain.EventFilter{From: from, To: to, PromoterID: "promoter-1"}).
			Return([]domain.Event{{ID: "event-1"}}, nil)

		list, err := uc.ListCalendar(ctx, domain.Viewer{UserID: "promoter-1", UserType: domain.UserTypePromoter}, from, to)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("Should show an empty calendar to companies without a profile", func(t *testing.T) {
		events, companies := new(MockEventRepo), new(MockCompanyRepo)
		uc := usecase.NewEventUsecase(events, companies, newCache(), validation.New())
		companies.On("GetByUserID", mock.Anything, "owner-1").Return(nil, repoErr(domain.KindNotFound))

		list, err := uc.ListCalendar(ctx, domain.Viewer{UserID: "owner-1", UserType: domain.UserTypeCompany}, from, to)
		require.NoError(t, err)
		assert.Empty(t, list)
		events.AssertNotCalled(t, "FetchInRange", mock.Anything, mock.Anything)
	})
}

func TestTrainingByRole(t *testing.T) {
	uc := usecase.NewOverviewUsecase(usecase.OverviewDeps{Cache: newCache()})

	for _, role := range []domain.UserType{domain.UserTypePromoter, domain.UserTypeSupervisor, domain.UserTypeCompany} {
		modules := uc.Training(domain.Viewer{UserType: role})
		require.NotEmpty(t, modules, role)
		for _, m := range modules {
			assert.Contains(t, m.Audience, role)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	uc := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return context.DeadlineExceeded },
	})

	report, healthy := uc.Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "degraded", report["status"])
	assert.Equal(t, "ok", report["database"])
	assert.Contains(t, report["redis"], "error")
}
