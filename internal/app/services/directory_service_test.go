package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldenheights/ehsas/internal/app/models"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/repositories"
	"github.com/eldenheights/ehsas/internal/app/repositories/memory"
	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
	"github.com/eldenheights/ehsas/internal/pkg/membership"
)

func seedDirectory(t *testing.T, repos *repositories.Repositories) {
	t.Helper()
	ctx := context.Background()

	people := []struct {
		first, last, profession, city string
		year                          int
		approve                       bool
	}{
		{"Zara", "Khan", "Software Engineer", "Pune", 2015, true},
		{"Arjun", "Mehta", "Civil Engineer", "Mumbai", 2015, true},
		{"Bela", "Shah", "Doctor", "pune", 2018, true},
		{"Kiran", "Das", "Engineer", "Pune", 2018, false},
	}
	for _, p := range people {
		a := &models.Alumni{
			ID:            uuid.NewString(),
			FirstName:     p.first,
			LastName:      p.last,
			Email:         p.first + "@x.com",
			Mobile:        "+91 99999 00000",
			FullAddress:   "12 Hill Road",
			YearOfLeaving: p.year,
			Profession:    p.profession,
			City:          p.city,
			Status:        models.StatusPending,
			CreatedAt:     time.Now(),
		}
		require.NoError(t, repos.Alumni.Create(ctx, a))
		if p.approve {
			_, err := repos.Alumni.Approve(ctx, a.ID, membership.NextID, time.Now())
			require.NoError(t, err)
		}
	}
}

func names(list []dto.PublicAlumni) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.FirstName
	}
	return out
}

func TestDirectory_Search(t *testing.T) {
	repos := memory.NewRepositories()
	seedDirectory(t, repos)
	svc := NewDirectoryService(repos.Alumni)

	tests := []struct {
		name  string
		query dto.DirectoryQuery
		want  []string
	}{
		{"all approved sorted by batch then name", dto.DirectoryQuery{}, []string{"Bela", "Arjun", "Zara"}},
		{"batch", dto.DirectoryQuery{Batch: "2015"}, []string{"Arjun", "Zara"}},
		{"profession substring", dto.DirectoryQuery{Profession: "ENGINEER"}, []string{"Arjun", "Zara"}},
		{"city substring", dto.DirectoryQuery{City: "pun"}, []string{"Bela", "Zara"}},
		{"conjunctive", dto.DirectoryQuery{Batch: "2015", City: "pune", Profession: "software"}, []string{"Zara"}},
		{"no match", dto.DirectoryQuery{Batch: "1999"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
			for _, a := range got {
				assert.NotEmpty(t, a.EhsasID)
			}
		})
	}
}

func TestDirectory_RejectsNonNumericBatch(t *testing.T) {
	svc := NewDirectoryService(memory.NewRepositories().Alumni)
	_, err := svc.Search(context.Background(), dto.DirectoryQuery{Batch: "twenty"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
