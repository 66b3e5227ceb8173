package services

import (
	"context"
	"testing"

	"GlobalDent/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveToothStatus(t *testing.T) {
	healthy := models.ToothHealthy
	invalid := models.ToothStatus("broken")

	tests := []struct {
		name      string
		procedure models.Procedure
		want      models.ToothStatus
	}{
		{"extraction keyword", models.Procedure{Name: "Simple Extraction"}, models.ToothExtracted},
		{"spanish extraction", models.Procedure{Name: "Extracción de muela del juicio"}, models.ToothExtracted},
		{"filling keyword", models.Procedure{Name: "Composite filling"}, models.ToothFilled},
		{"resin keyword", models.Procedure{Name: "Resin restoration"}, models.ToothFilled},
		{"spanish filling", models.Procedure{Name: "Obturación con amalgama"}, models.ToothFilled},
		{"extraction wins over filling", models.Procedure{Name: "Extraction and filling"}, models.ToothExtracted},
		{"no keyword", models.Procedure{Name: "Dental cleaning"}, models.ToothPending},
		{"explicit status wins", models.Procedure{Name: "Extraction review", ResultingStatus: &healthy}, models.ToothHealthy},
		{"invalid explicit status ignored", models.Procedure{Name: "Filling", ResultingStatus: &invalid}, models.ToothFilled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveToothStatus(tt.procedure))
		})
	}
}

func TestApply_PriceFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t, "Ana")
	consultation := f.createConsultation(t, patient.ID)
	procedure := f.createProcedure(t, "Crown", "3500")

	zero := decimal.Zero
	explicit := decimal.RequireFromString("2800.00")
	tests := []struct {
		name  string
		tooth int
		price *decimal.Decimal
		want  string
	}{
		{"unset price uses base price", 3, nil, "3500"},
		{"zero price uses base price", 4, &zero, "3500"},
		{"explicit price is kept", 5, &explicit, "2800"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toothProcedure, err := f.toothProcedures.Apply(ctx, consultation.ID, ApplyProcedureInput{
				ToothID:      f.toothByNumber(t, patient.ID, tt.tooth).ID,
				ProcedureID:  procedure.ID,
				PriceCharged: tt.price,
			})
			require.NoError(t, err)
			assertDecimal(t, tt.want, toothProcedure.PriceCharged)
			require.NotNil(t, toothProcedure.Procedure)
			assert.Equal(t, "Crown", toothProcedure.Procedure.Name)
		})
	}

	total, err := f.billing.CalculateTotalCost(ctx, consultation.ID)
	require.NoError(t, err)
	assertDecimal(t, "9800", total)
}

func TestApply_NegativePriceRejected(t *testing.T) {
	f := newFixture(t)
	patient := f.createPatient(t, "Ana")
	consultation := f.createConsultation(t, patient.ID)
	procedure := f.createProcedure(t, "Crown", "3500")

	negative := decimal.NewFromInt(-1)
	_, err := f.toothProcedures.Apply(context.Background(), consultation.ID, ApplyProcedureInput{
		ToothID:      f.toothByNumber(t, patient.ID, 1).ID,
		ProcedureID:  procedure.ID,
		PriceCharged: &negative,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApply_UpdatesToothStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t, "Ana")
	consultation := f.createConsultation(t, patient.ID)
	extraction := f.createProcedure(t, "Simple Extraction", "500")
	cleaning := f.createProcedure(t, "Cleaning", "400")

	_, err := f.toothProcedures.Apply(ctx, consultation.ID, ApplyProcedureInput{
		ToothID:     f.toothByNumber(t, patient.ID, 16).ID,
		ProcedureID: extraction.ID,
	})
	require.NoError(t, err)
	_, err = f.toothProcedures.Apply(ctx, consultation.ID, ApplyProcedureInput{
		ToothID:     f.toothByNumber(t, patient.ID, 17).ID,
		ProcedureID: cleaning.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ToothExtracted, f.toothByNumber(t, patient.ID, 16).Status)
	assert.Equal(t, models.ToothPending, f.toothByNumber(t, patient.ID, 17).Status)
	assert.Equal(t, models.ToothHealthy, f.toothByNumber(t, patient.ID, 18).Status)
}

func TestApply_ToothOfAnotherPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.createPatient(t, "Ana")
	luis := f.createPatient(t, "Luis")
	consultation := f.createConsultation(t, ana.ID)
	procedure := f.createProcedure(t, "Simple Extraction", "500")
	foreignTooth := f.toothByNumber(t, luis.ID, 1)

	_, err := f.toothProcedures.Apply(ctx, consultation.ID, ApplyProcedureInput{
		ToothID:     foreignTooth.ID,
		ProcedureID: procedure.ID,
	})
	assert.ErrorIs(t, err, ErrToothNotInConsultation)

	recorded, err := f.toothProcedures.ListByConsultation(ctx, consultation.ID)
	require.NoError(t, err)
	assert.Empty(t, recorded)
	assert.Equal(t, models.ToothHealthy, f.toothByNumber(t, luis.ID, 1).Status)
}

func TestApply_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t, "Ana")
	consultation := f.createConsultation(t, patient.ID)
	procedure := f.createProcedure(t, "Crown", "3500")
	tooth := f.toothByNumber(t, patient.ID, 1)

	_, err := f.toothProcedures.Apply(ctx, consultation.ID, ApplyProcedureInput{ToothID: 9999, ProcedureID: procedure.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.toothProcedures.Apply(ctx, consultation.ID, ApplyProcedureInput{ToothID: tooth.ID, ProcedureID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.toothProcedures.Apply(ctx, 9999, ApplyProcedureInput{ToothID: tooth.ID, ProcedureID: procedure.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_RecomputesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t, "Ana")
	consultation := f.createConsultation(t, patient.ID)
	extraction := f.createProcedure(t, "Simple Extraction", "500")
	filling := f.createProcedure(t, "Filling (Resin)", "600")

	first, err := f.toothProcedures.Apply(ctx, consultation.ID, ApplyProcedureInput{
		ToothID:     f.toothByNumber(t, patient.ID, 1).ID,
		ProcedureID: extraction.ID,
	})
	require.NoError(t, err)
	_, err = f.toothProcedures.Apply(ctx, consultation.ID, ApplyProcedureInput{
		ToothID:     f.toothByNumber(t, patient.ID, 2).ID,
		ProcedureID: filling.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.toothProcedures.Remove(ctx, first.ID))

	stored, err := f.consultationRepo.GetByID(ctx, consultation.ID)
	require.NoError(t, err)
	assertDecimal(t, "600", stored.TotalCost)
	assert.Equal(t, models.ToothExtracted, f.toothByNumber(t, patient.ID, 1).Status)

	assert.ErrorIs(t, f.toothProcedures.Remove(ctx, first.ID), ErrNotFound)
}

func TestTeethForConsultation(t *testing.T) {
	f := newFixture(t)
	ana := f.createPatient(t, "Ana")
	f.createPatient(t, "Luis")
	consultation := f.createConsultation(t, ana.ID)

	options, err := f.toothProcedures.TeethForConsultation(context.Background(), consultation.ID)
	require.NoError(t, err)

	require.Len(t, options, models.TeethPerHistory)
	assert.Equal(t, 1, options[0].Number)
	assert.Equal(t, "Tooth 1 (Healthy)", options[0].Label)
	for _, option := range options {
		assert.Equal(t, ana.ID, f.mustOwner(t, option.ID))
	}
}

func (f *fixture) mustOwner(t *testing.T, toothID uint) uint {
	t.Helper()
	owner, err := f.toothRepo.OwnerPatientID(context.Background(), toothID)
	require.NoError(t, err)
	return owner
}
