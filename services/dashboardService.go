package services

import (
	"GlobalDent/models"
	"GlobalDent/repositories"
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const dashboardListSize = 5

type PendingBalance struct {
	Consultation models.Consultation `json:"consultation"`
	Balance      decimal.Decimal     `json:"balance"`
}

type DashboardStats struct {
	TotalPatients        int64                 `json:"total_patients"`
	TotalConsultations   int64                 `json:"total_consultations"`
	TotalProcedures      int64                 `json:"total_procedures"`
	MonthlyIncome        decimal.Decimal       `json:"monthly_income"`
	RecentConsultations  []models.Consultation `json:"recent_consultations"`
	RecentPatients       []models.Patient      `json:"recent_patients"`
	PendingConsultations []PendingBalance      `json:"pending_consultations"`
}

type DashboardService struct {
	patients        *repositories.PatientRepository
	consultations   *repositories.ConsultationRepository
	toothProcedures *repositories.ToothProcedureRepository
	payments        *repositories.PaymentRepository
	now             func() time.Time
}

func NewDashboardService(
	patients *repositories.PatientRepository,
	consultations *repositories.ConsultationRepository,
	toothProcedures *repositories.ToothProcedureRepository,
	payments *repositories.PaymentRepository,
) *DashboardService {
	return &DashboardService{
		patients:        patients,
		consultations:   consultations,
		toothProcedures: toothProcedures,
		payments:        payments,
		now:             time.Now,
	}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)

	if stats.TotalPatients, err = s.patients.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalConsultations, err = s.consultations.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProcedures, err = s.toothProcedures.Count(ctx); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if stats.MonthlyIncome, err = s.payments.IncomeBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}

	if stats.RecentConsultations, err = s.consultations.Recent(ctx, dashboardListSize); err != nil {
		return nil, err
	}
	if stats.RecentPatients, err = s.patients.Recent(ctx, dashboardListSize); err != nil {
		return nil, err
	}

	pending, err := s.consultations.WithOutstandingBalance(ctx, dashboardListSize)
	if err != nil {
		return nil, err
	}
	stats.PendingConsultations = make([]PendingBalance, 0, len(pending))
	for _, consultation := range pending {
		paid, err := s.payments.SumByConsultation(ctx, consultation.ID)
		if err != nil {
			return nil, err
		}
		stats.PendingConsultations = append(stats.PendingConsultations, PendingBalance{
			Consultation: consultation,
			Balance:      consultation.TotalCost.Sub(paid).Round(2),
		})
	}
	return &stats, nil
}
