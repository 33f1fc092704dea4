package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/app/repositories/memory"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/email"
)

type fakeNotifier struct {
	mu        sync.Mutex
	fail      bool
	sent      []string
	approvals map[string]string
}

func (f *fakeNotifier) record(kind, to string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, kind+":"+to)
	return !f.fail
}

func (f *fakeNotifier) SendRegistrationNotice(_ context.Context, a email.Applicant) bool {
	return f.record("registration", a.Email)
}

func (f *fakeNotifier) SendApprovalNotice(_ context.Context, a email.Applicant, id string) bool {
	f.mu.Lock()
	if f.approvals == nil {
		f.approvals = make(map[string]string)
	}
	f.approvals[a.Email] = id
	f.mu.Unlock()
	return f.record("approval", a.Email)
}

func (f *fakeNotifier) SendRejectionNotice(_ context.Context, a email.Applicant) bool {
	return f.record("rejection", a.Email)
}

func newMembershipFixture() (MembershipService, *repositories.Repositories, *fakeNotifier) {
	repos := memory.NewRepositories()
	notifier := &fakeNotifier{}
	svc := NewMembershipService(repos.Alumni, repos.Notifications, notifier, zerolog.Nop())
	return svc, repos, notifier
}

func registration(email string, year int) *dto.RegisterAlumniRequest {
	return &dto.RegisterAlumniRequest{
		FirstName:     "Asha",
		LastName:      "Rao",
		Email:         email,
		YearOfJoining: year - 10,
		YearOfLeaving: year,
		City:          "Pune",
		Profession:    "Engineer",
	}
}

func TestRegister_CreatesPendingRecordAndNotification(t *testing.T) {
	ctx := context.Background()
	svc, repos, notifier := newMembershipFixture()

	result, err := svc.Register(ctx, registration("  Asha@Example.COM ", 2020))
	require.NoError(t, err)
	assert.True(t, result.EmailSent)

	stored, err := repos.Alumni.GetByID(ctx, result.Alumni.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", stored.Email)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Nil(t, stored.EhsasID)

	notes, err := repos.Notifications.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationRegistration, notes[0].Type)
	assert.Equal(t, "New Alumni Registration", notes[0].Title)
	assert.Equal(t, "Asha Rao (asha@example.com) has registered from batch 2020", notes[0].Message)
	assert.Equal(t, stored.ID, notes[0].AlumniID)

	assert.Equal(t, []string{"registration:asha@example.com"}, notifier.sent)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.RegisterAlumniRequest)
	}{
		{"missing email", func(r *dto.RegisterAlumniRequest) { r.Email = "  " }},
		{"malformed email", func(r *dto.RegisterAlumniRequest) { r.Email = "not-an-email" }},
		{"missing year of leaving", func(r *dto.RegisterAlumniRequest) { r.YearOfLeaving = 0 }},
		{"two digit year", func(r *dto.RegisterAlumniRequest) { r.YearOfLeaving = 20 }},
		{"left before joining", func(r *dto.RegisterAlumniRequest) { r.YearOfJoining = 2021 }},
		{"bad mobile", func(r *dto.RegisterAlumniRequest) { r.Mobile = "call me" }},
		{"line break in first name", func(r *dto.RegisterAlumniRequest) { r.FirstName = "Asha\r\nBcc: x@evil.test" }},
		{"control character in city", func(r *dto.RegisterAlumniRequest) { r.City = "Pune\x00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repos, notifier := newMembershipFixture()
			req := registration("a@x.com", 2020)
			tt.mutate(req)

			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

			count, _ := repos.Alumni.CountByStatus(context.Background(), models.StatusPending)
			assert.Zero(t, count)
			assert.Empty(t, notifier.sent)
		})
	}
}

func TestRegister_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMembershipFixture()

	_, err := svc.Register(ctx, registration("a@x.com", 2020))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registration("A@X.com", 2021))
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegister_SucceedsWhenEmailFails(t *testing.T) {
	svc, _, notifier := newMembershipFixture()
	notifier.fail = true

	result, err := svc.Register(context.Background(), registration("a@x.com", 2020))
	require.NoError(t, err)
	assert.False(t, result.EmailSent)
}

func TestApprove_IssuesSequentialIDsPerBatch(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newMembershipFixture()

	var ids []string
	for i := 0; i < 3; i++ {
		r, err := svc.Register(ctx, registration(fmt.Sprintf("b%d@x.com", i), 2018))
		require.NoError(t, err)
		ids = append(ids, r.Alumni.ID)
	}

	for i, id := range ids {
		result, err := svc.Approve(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, result.Alumni.EhsasID)
		assert.Equal(t, fmt.Sprintf("EH18%04d", i+1), *result.Alumni.EhsasID)
		assert.Equal(t, models.StatusApproved, result.Alumni.Status)
		assert.NotNil(t, result.Alumni.ApprovedAt)
		assert.True(t, result.EmailSent)
	}
	assert.Equal(t, "EH180002", notifier.approvals["b1@x.com"])
}

func TestApprove_ConcurrentSameBatch(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMembershipFixture()
	const n = 20

	var ids []string
	for i := 0; i < n; i++ {
		r, err := svc.Register(ctx, registration(fmt.Sprintf("c%d@x.com", i), 2022))
		require.NoError(t, err)
		ids = append(ids, r.Alumni.ID)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	issued := make(map[string]bool)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			result, err := svc.Approve(ctx, id)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			issued[*result.Alumni.EhsasID] = true
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	assert.Len(t, issued, n)
	for i := 1; i <= n; i++ {
		assert.True(t, issued[fmt.Sprintf("EH22%04d", i)])
	}
}

func TestReview_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newMembershipFixture()

	_, err := svc.Approve(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrAlumniNotFound)
	_, err = svc.Reject(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrAlumniNotFound)

	r, err := svc.Register(ctx, registration("a@x.com", 2020))
	require.NoError(t, err)
	first, err := svc.Approve(ctx, r.Alumni.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, r.Alumni.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
	_, err = svc.Reject(ctx, r.Alumni.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)

	all, err := svc.ListAll(ctx, "approved")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, *first.Alumni.EhsasID, *all[0].EhsasID)

	// one registration notice and one approval notice
	assert.Len(t, notifier.sent, 2)
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	svc, _, notifier := newMembershipFixture()

	r, err := svc.Register(ctx, registration("r@x.com", 2020))
	require.NoError(t, err)

	result, err := svc.Reject(ctx, r.Alumni.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, result.Alumni.Status)
	assert.Nil(t, result.Alumni.EhsasID)
	assert.Contains(t, notifier.sent, "rejection:r@x.com")

	_, err = svc.Approve(ctx, r.Alumni.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMembershipFixture()

	for i := 0; i < 3; i++ {
		_, err := svc.Register(ctx, registration(fmt.Sprintf("l%d@x.com", i), 2020))
		require.NoError(t, err)
	}
	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)

	_, err = svc.Reject(ctx, pending[0].ID)
	require.NoError(t, err)

	pending, err = svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, err := svc.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListAll(ctx, "archived")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
