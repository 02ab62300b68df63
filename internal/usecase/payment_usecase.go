package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/querycache"

	"github.com/go-playground/validator/v10"
)

type paymentUsecase struct {
	paymentRepo domain.PaymentRepository
	jobRepo     domain.JobRepository
	companyRepo domain.CompanyRepository
	notifier    domain.NotificationUsecase
	cache       *querycache.Cache
	validate    *validator.Validate
}

func NewPaymentUsecase(
	paymentRepo domain.PaymentRepository,
	jobRepo domain.JobRepository,
	companyRepo domain.CompanyRepository,
	notifier domain.NotificationUsecase,
	cache *querycache.Cache,
	validate *validator.Validate,
) domain.PaymentUsecase {
	return &paymentUsecase{
		paymentRepo: paymentRepo,
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		notifier:    notifier,
		cache:       cache,
		validate:    validate,
	}
}

func (u *paymentUsecase) ListCompanyPayments(ctx context.Context, userID string) ([]domain.Payment, error) {
	company, err := companyOf(ctx, u.companyRepo, userID)
	if err != nil {
		return nil, err
	}
	payments, err := u.paymentRepo.FetchByCompanyID(ctx, company.ID)
	if err != nil {
		return nil, failure("Failed to load payments", err)
	}
	return payments, nil
}

func (u *paymentUsecase) ListPromoterPayments(ctx context.Context, promoterID string) ([]domain.Payment, error) {
	payments, err := u.paymentRepo.FetchByPromoterID(ctx, promoterID)
	if err != nil {
		return nil, failure("Failed to load payments", err)
	}
	return payments, nil
}

// CreatePayment records a pending payment from the caller's company to a
// promoter for one of its jobs.
func (u *paymentUsecase) CreatePayment(ctx context.Context, userID string, input domain.PaymentInput) (*domain.Payment, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	company, err := companyOf(ctx, u.companyRepo, userID)
	if err != nil {
		return nil, err
	}
	job, err := u.jobRepo.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, lookupFailure("Job not found", "Failed to load the job", err)
	}
	if job.Event == nil || job.Event.CompanyID != company.ID {
		return nil, apperror.Forbidden("You can only pay for your own jobs")
	}

	payment := &domain.Payment{
		JobID:      input.JobID,
		CompanyID:  company.ID,
		PromoterID: input.PromoterID,
		Amount:     input.Amount,
	}
	if err := u.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, domain.ErrReference) {
			return nil, apperror.BadRequest("Promoter not found")
		}
		return nil, failure("Failed to create the payment", err)
	}
	payment.JobTitle = &job.Title

	u.notifier.Notify(ctx, domain.Notification{
		UserID:       payment.PromoterID,
		Title:        "Payment created",
		Message:      fmt.Sprintf("A payment of %.2f for %s is pending", payment.Amount, job.Title),
		Type:         domain.NotificationPayment,
		RelatedJobID: &job.ID,
	})
	u.cache.Invalidate(ctx, querycache.Key("payments.earnings", payment.PromoterID))
	return payment, nil
}

// RequestProcessing moves a pending payment to processing. Every later
// transition belongs to the payment backend.
func (u *paymentUsecase) RequestProcessing(ctx context.Context, userID, paymentID string) error {
	company, err := companyOf(ctx, u.companyRepo, userID)
	if err != nil {
		return err
	}
	payment, err := u.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return lookupFailure("Payment not found", "Failed to load the payment", err)
	}
	if payment.CompanyID != company.ID {
		return apperror.Forbidden("You can only process your own payments")
	}
	if payment.Status != domain.PaymentStatusPending {
		return apperror.Conflict("Only pending payments can be processed")
	}

	err = u.paymentRepo.TransitionStatus(ctx, paymentID, domain.PaymentStatusPending, domain.PaymentStatusProcessing)
	if errors.Is(err, domain.ErrInvalidTransition) {
		return apperror.Conflict("Only pending payments can be processed")
	}
	if err != nil {
		return lookupFailure("Payment not found", "Failed to process the payment", err)
	}

	u.notifier.Notify(ctx, domain.Notification{
		UserID:       payment.PromoterID,
		Title:        "Payment processing",
		Message:      fmt.Sprintf("Your payment of %.2f is being processed", payment.Amount),
		Type:         domain.NotificationPayment,
		RelatedJobID: &payment.JobID,
	})
	u.cache.Invalidate(ctx, querycache.Key("payments.earnings", payment.PromoterID))
	return nil
}

func (u *paymentUsecase) CalculateEarnings(ctx context.Context, promoterID string) (*domain.Earnings, error) {
	var earnings domain.Earnings
	err := u.cache.Fetch(ctx, querycache.Key("payments.earnings", promoterID), &earnings, func() (interface{}, error) {
		return u.paymentRepo.CalculateEarnings(ctx, promoterID)
	})
	if err != nil {
		return nil, failure("Failed to calculate your earnings", err)
	}
	return &earnings, nil
}

// RequestPayout checks the amount and bank details before any database call,
// then checks the amount against a fresh earnings computation.
func (u *paymentUsecase) RequestPayout(ctx context.Context, promoterID string, input domain.PayoutInput) (*domain.PayoutRequest, error) {
	input.BankDetails = strings.TrimSpace(input.BankDetails)
	if input.Amount <= 0 {
		return nil, apperror.BadRequest("Payout amount must be greater than zero")
	}
	if input.BankDetails == "" {
		return nil, apperror.BadRequest("Bank details are required")
	}
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}

	earnings, err := u.paymentRepo.CalculateEarnings(ctx, promoterID)
	if err != nil {
		return nil, failure("Failed to calculate your earnings", err)
	}
	if input.Amount > earnings.AvailableForPayout {
		return nil, apperror.BadRequest(fmt.Sprintf("You can request at most %.2f", earnings.AvailableForPayout))
	}

	req := &domain.PayoutRequest{
		PromoterID:  promoterID,
		Amount:      input.Amount,
		BankDetails: input.BankDetails,
	}
	if err := u.paymentRepo.CreatePayoutRequest(ctx, req); err != nil {
		return nil, failure("Failed to request the payout", err)
	}

	u.cache.Invalidate(ctx, querycache.Key("payments.earnings", promoterID))
	return req, nil
}

func (u *paymentUsecase) ListPayoutRequests(ctx context.Context, promoterID string) ([]domain.PayoutRequest, error) {
	list, err := u.paymentRepo.FetchPayoutRequests(ctx, promoterID)
	if err != nil {
		return nil, failure("Failed to load payout requests", err)
	}
	return list, nil
}

// ExportCompanyPayments renders the caller's payments as a spreadsheet and
// returns it with a file name.
func (u *paymentUsecase) ExportCompanyPayments(ctx context.Context, userID, format string) ([]byte, string, error) {
	payments, err := u.ListCompanyPayments(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "csv":
		data, name, err := exportPaymentsCSV(payments)
		if err != nil {
			return nil, "", apperror.Wrap("Failed to export payments", err)
		}
		return data, name, nil
	case "xlsx", "":
		data, name, err := exportPaymentsExcel(payments)
		if err != nil {
			return nil, "", apperror.Wrap("Failed to export payments", err)
		}
		return data, name, nil
	default:
		return nil, "", apperror.BadRequest(fmt.Sprintf("Unsupported export format: %s", format))
	}
}
