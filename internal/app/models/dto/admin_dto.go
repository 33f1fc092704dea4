package dto

import "github.com/eldenheights/ehsas/internal/app/models"

// StatsResponse is the admin dashboard summary
type StatsResponse struct {
	TotalAlumni          int                 `json:"total_alumni"`
	PendingRegistrations int                 `json:"pending_registrations"`
	TotalEvents          int                 `json:"total_events"`
	BatchDistribution    []models.BatchCount `json:"batch_distribution"`
}
