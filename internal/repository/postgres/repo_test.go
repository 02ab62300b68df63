package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())

	config, err := pgxpool.ParseConfig(databaseURL)
	require.NoError(t, err)
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, public", schema))
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	require.NoError(t, err)

	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		pool.Close()
		t.Fatalf("create schema: %v", err)
	}
	if err := createTestTables(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("create tables: %v", err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		pool.Close()
	})
	return pool
}

func createTestTables(ctx context.Context, pool *pgxpool.Pool) error {
	queries := []string{
		`CREATE TABLE profiles (id uuid PRIMARY KEY, full_name text NOT NULL, phone text, user_type text NOT NULL, avatar_url text, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE companies (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid UNIQUE REFERENCES profiles(id), name text NOT NULL, description text, logo_url text, website text, industry text, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE events (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), company_id uuid REFERENCES companies(id), title text NOT NULL, description text, location text NOT NULL, start_date timestamptz NOT NULL, end_date timestamptz NOT NULL, status text DEFAULT 'draft', created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE jobs (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), event_id uuid REFERENCES events(id) ON DELETE CASCADE, title text NOT NULL, description text, positions_available int NOT NULL, positions_filled int DEFAULT 0, hourly_rate numeric(10,2), shift_start timestamptz NOT NULL, shift_end timestamptz NOT NULL, status text DEFAULT 'open', requirements text[], supervisor_id uuid REFERENCES profiles(id), created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE job_applications (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), job_id uuid REFERENCES jobs(id) ON DELETE CASCADE, promoter_id uuid REFERENCES profiles(id), status text DEFAULT 'pending', message text, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now(), UNIQUE (job_id, promoter_id))`,
		`CREATE TABLE messages (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), sender_id uuid REFERENCES profiles(id), recipient_id uuid REFERENCES profiles(id), subject text, content text NOT NULL, job_id uuid, is_read boolean DEFAULT false, created_at timestamptz DEFAULT now())`,
		`CREATE TABLE notifications (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid REFERENCES profiles(id), title text NOT NULL, message text NOT NULL, type text NOT NULL, is_read boolean DEFAULT false, related_job_id uuid, related_event_id uuid, created_at timestamptz DEFAULT now())`,
		`CREATE TABLE ratings (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), job_id uuid REFERENCES jobs(id), rater_id uuid REFERENCES profiles(id), rated_id uuid REFERENCES profiles(id), rating int NOT NULL CHECK (rating BETWEEN 1 AND 5), comment text, created_at timestamptz DEFAULT now())`,
		`CREATE TABLE payments (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), job_id uuid REFERENCES jobs(id), company_id uuid REFERENCES companies(id), promoter_id uuid REFERENCES profiles(id), amount numeric(10,2) NOT NULL, status text DEFAULT 'pending', created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE payout_requests (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), promoter_id uuid REFERENCES profiles(id), amount numeric(10,2) NOT NULL, bank_details text NOT NULL, status text DEFAULT 'pending', created_at timestamptz DEFAULT now())`,
		`CREATE TABLE wallets (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid UNIQUE REFERENCES profiles(id), balance numeric(10,2) DEFAULT 0, pending_balance numeric(10,2) DEFAULT 0, updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE wallet_transactions (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), wallet_id uuid REFERENCES wallets(id), amount numeric(10,2) NOT NULL, type text NOT NULL, status text DEFAULT 'completed', description text, created_at timestamptz DEFAULT now())`,
		`CREATE FUNCTION calculate_promoter_earnings(p_promoter_id uuid)
		 RETURNS TABLE (total_earned numeric, pending_earnings numeric, available_for_payout numeric)
		 LANGUAGE sql AS $$
			SELECT
				COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0),
				COALESCE(SUM(amount) FILTER (WHERE status IN ('pending', 'processing')), 0),
				COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0)
					- COALESCE((SELECT SUM(amount) FROM payout_requests WHERE promoter_id = p_promoter_id AND status <> 'rejected'), 0)
			FROM payments WHERE promoter_id = p_promoter_id
		 $$`,
	}
	for _, query := range queries {
		if _, err := pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

type fixture struct {
	companyUser string
	promoterA   string
	promoterB   string
	company     *domain.Company
	event       *domain.Event
	job         *domain.Job
}

func seed(t *testing.T, pool *pgxpool.Pool, positions int) fixture {
	t.Helper()
	ctx := context.Background()
	profiles := NewProfileRepository(pool)

	newProfile := func(id, name string, userType domain.UserType) string {
		require.NoError(t, profiles.Create(ctx, &domain.Profile{ID: id, FullName: name, UserType: userType}))
		return id
	}
	f := fixture{
		companyUser: newProfile("11111111-1111-1111-1111-111111111111", "Acme Owner", domain.UserTypeCompany),
		promoterA:   newProfile("22222222-2222-2222-2222-222222222222", "Ana Promoter", domain.UserTypePromoter),
		promoterB:   newProfile("33333333-3333-3333-3333-333333333333", "Ben Promoter", domain.UserTypePromoter),
	}

	f.company = &domain.Company{UserID: f.companyUser, Name: "Acme Events"}
	require.NoError(t, NewCompanyRepository(pool).Upsert(ctx, f.company))

	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	f.event = &domain.Event{
		CompanyID: f.company.ID,
		Title:     "Summer Fair",
		Location:  "Lisbon",
		StartDate: start,
		EndDate:   start.Add(8 * time.Hour),
		Status:    domain.EventStatusPublished,
	}
	require.NoError(t, NewEventRepository(pool).Create(ctx, f.event))

	f.job = &domain.Job{
		EventID:            f.event.ID,
		Title:              "Brand Ambassador",
		PositionsAvailable: positions,
		ShiftStart:         start,
		ShiftEnd:           start.Add(4 * time.Hour),
		Requirements:       []string{"Portuguese", "English"},
	}
	require.NoError(t, NewJobRepository(pool).Create(ctx, f.job))
	return f
}

func TestJobRepository_RoundTripsRequirementsAndEvent(t *testing.T) {
	pool := setupTestPool(t)
	f := seed(t, pool, 2)

	job, err := NewJobRepository(pool).GetByID(context.Background(), f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Portuguese", "English"}, job.Requirements)
	assert.Equal(t, domain.JobStatusOpen, job.Status)
	require.NotNil(t, job.Event)
	assert.Equal(t, "Acme Events", job.Event.CompanyName)
	assert.Equal(t, f.company.ID, job.Event.CompanyID)
}

func TestApplicationRepository_DuplicateApplication(t *testing.T) {
	pool := setupTestPool(t)
	f := seed(t, pool, 2)
	repo := NewApplicationRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.JobApplication{JobID: f.job.ID, PromoterID: f.promoterA}))
	err := repo.Create(ctx, &domain.JobApplication{JobID: f.job.ID, PromoterID: f.promoterA})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestApplicationRepository_ApproveFillsPositions(t *testing.T) {
	pool := setupTestPool(t)
	f := seed(t, pool, 1)
	repo := NewApplicationRepository(pool)
	jobs := NewJobRepository(pool)
	ctx := context.Background()

	first := &domain.JobApplication{JobID: f.job.ID, PromoterID: f.promoterA}
	second := &domain.JobApplication{JobID: f.job.ID, PromoterID: f.promoterB}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.Approve(ctx, first.ID))
	job, err := jobs.GetByID(ctx, f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, job.PositionsFilled)
	assert.Equal(t, domain.JobStatusFilled, job.Status)

	assert.ErrorIs(t, repo.Approve(ctx, second.ID), domain.ErrJobFull)
	got, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, got.Status, "rolled back with the job update")

	assert.ErrorIs(t, repo.Approve(ctx, first.ID), domain.ErrInvalidTransition)
	assert.ErrorIs(t, repo.Reject(ctx, "99999999-9999-9999-9999-999999999999"), domain.ErrNotFound)
}

func TestEventRepository_FetchInRangeForPromoter(t *testing.T) {
	pool := setupTestPool(t)
	f := seed(t, pool, 2)
	ctx := context.Background()
	apps := NewApplicationRepository(pool)
	events := NewEventRepository(pool)

	app := &domain.JobApplication{JobID: f.job.ID, PromoterID: f.promoterA}
	require.NoError(t, apps.Create(ctx, app))

	filter := domain.EventFilter{
		From:       time.Now(),
		To:         time.Now().Add(7 * 24 * time.Hour),
		PromoterID: f.promoterA,
	}
	list, err := events.FetchInRange(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, list, "pending applications do not put events on the calendar")

	require.NoError(t, apps.Approve(ctx, app.ID))
	list, err = events.FetchInRange(ctx, filter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.event.ID, list[0].ID)

	filter.CompanyID, filter.PromoterID = f.company.ID, ""
	list, err = events.FetchInRange(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMessageRepository_MarkAsReadIsIdempotentAndScoped(t *testing.T) {
	pool := setupTestPool(t)
	f := seed(t, pool, 1)
	repo := NewMessageRepository(pool)
	ctx := context.Background()

	msg := &domain.Message{SenderID: f.companyUser, RecipientID: f.promoterA, Content: "See you Saturday"}
	require.NoError(t, repo.Create(ctx, msg))

	n, err := repo.CountUnread(ctx, f.promoterA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, repo.MarkAsRead(ctx, msg.ID, f.promoterB), domain.ErrNotFound)
	require.NoError(t, repo.MarkAsRead(ctx, msg.ID, f.promoterA))
	require.NoError(t, repo.MarkAsRead(ctx, msg.ID, f.promoterA))

	inbox, err := repo.FetchInbox(ctx, f.promoterA)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.True(t, inbox[0].IsRead)
	require.NotNil(t, inbox[0].SenderName)
	assert.Equal(t, "Acme Owner", *inbox[0].SenderName)
}

func TestNotificationRepository_MarkAllAsRead(t *testing.T) {
	pool := setupTestPool(t)
	f := seed(t, pool, 1)
	repo := NewNotificationRepository(pool)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Notification{
			UserID:  f.promoterA,
			Title:   "Application update",
			Message: fmt.Sprintf("update %d", i),
			Type:    domain.NotificationApplication,
		}))
	}

	updated, err := repo.MarkAllAsRead(ctx, f.promoterA)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	updated, err = repo.MarkAllAsRead(ctx, f.promoterA)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)
}

func TestPaymentRepository_TransitionAndEarnings(t *testing.T) {
	pool := setupTestPool(t)
	f := seed(t, pool, 1)
	repo := NewPaymentRepository(pool)
	ctx := context.Background()

	completed := &domain.Payment{JobID: f.job.ID, CompanyID: f.company.ID, PromoterID: f.promoterA, Amount: 120}
	pending := &domain.Payment{JobID: f.job.ID, CompanyID: f.company.ID, PromoterID: f.promoterA, Amount: 80}
	require.NoError(t, repo.Create(ctx, completed))
	require.NoError(t, repo.Create(ctx, pending))
	_, err := pool.Exec(ctx, `UPDATE payments SET status = 'completed' WHERE id = $1`, completed.ID)
	require.NoError(t, err)

	require.NoError(t, repo.TransitionStatus(ctx, pending.ID, domain.PaymentStatusPending, domain.PaymentStatusProcessing))
	assert.ErrorIs(t, repo.TransitionStatus(ctx, pending.ID, domain.PaymentStatusPending, domain.PaymentStatusProcessing), domain.ErrInvalidTransition)

	require.NoError(t, repo.CreatePayoutRequest(ctx, &domain.PayoutRequest{PromoterID: f.promoterA, Amount: 20, BankDetails: "PT50 0000"}))

	earnings, err := repo.CalculateEarnings(ctx, f.promoterA)
	require.NoError(t, err)
	assert.InDelta(t, 120, earnings.TotalEarned, 0.001)
	assert.InDelta(t, 80, earnings.PendingEarnings, 0.001)
	assert.InDelta(t, 100, earnings.AvailableForPayout, 0.001)

	list, err := repo.FetchByCompanyID(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
