package services

import (
	"context"
	"testing"
	"time"

	"GlobalDent/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.createPatient(t, "Ana")
	luis := f.createPatient(t, "Luis")
	procedure := f.createProcedure(t, "Crown", "3500")

	owed := f.createConsultation(t, ana.ID)
	settled := f.createConsultation(t, luis.ID)
	f.createConsultation(t, luis.ID)

	for _, c := range []struct {
		consultation *models.Consultation
		patient      *models.Patient
		paid         int64
	}{
		{owed, ana, 1000},
		{settled, luis, 3500},
	} {
		_, err := f.toothProcedures.Apply(ctx, c.consultation.ID, ApplyProcedureInput{
			ToothID:     f.toothByNumber(t, c.patient.ID, 3).ID,
			ProcedureID: procedure.ID,
		})
		require.NoError(t, err)
		_, err = f.payments.Record(ctx, c.consultation.ID, RecordPaymentInput{
			Amount: decimal.NewFromInt(c.paid),
			Method: models.PaymentCash,
		})
		require.NoError(t, err)
	}

	stats, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalPatients)
	assert.EqualValues(t, 3, stats.TotalConsultations)
	assert.EqualValues(t, 2, stats.TotalProcedures)
	assertDecimal(t, "4500", stats.MonthlyIncome)
	assert.Len(t, stats.RecentConsultations, 3)
	assert.Len(t, stats.RecentPatients, 2)

	require.Len(t, stats.PendingConsultations, 1)
	assert.Equal(t, owed.ID, stats.PendingConsultations[0].Consultation.ID)
	assertDecimal(t, "2500", stats.PendingConsultations[0].Balance)
}

func TestDashboard_IncomeOutsideMonth(t *testing.T) {
	f := newFixture(t)
	f.dashboard.now = func() time.Time { return time.Now().AddDate(0, 2, 0) }
	patient := f.createPatient(t, "Ana")
	consultation := f.createConsultation(t, patient.ID)
	_, err := f.payments.Record(context.Background(), consultation.ID, RecordPaymentInput{
		Amount: decimal.NewFromInt(100),
		Method: models.PaymentCash,
	})
	require.NoError(t, err)

	stats, err := f.dashboard.Stats(context.Background())
	require.NoError(t, err)
	assertDecimal(t, "0", stats.MonthlyIncome)
	assert.Empty(t, stats.PendingConsultations)
}
