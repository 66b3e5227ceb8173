package services

import (
	"context"
	"testing"

	"GlobalDent/cache"
	"GlobalDent/models"
	"GlobalDent/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePatient_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	missingName := newPatient("")
	_, err := f.patients.CreateWithHistory(ctx, missingName, nil)
	assert.ErrorIs(t, err, ErrValidation)

	badGender := newPatient("Ana")
	badGender.Gender = "X"
	_, err = f.patients.CreateWithHistory(ctx, badGender, nil)
	assert.ErrorIs(t, err, ErrValidation)

	badPhone := newPatient("Ana")
	badPhone.PhoneNumber = "12"
	_, err = f.patients.CreateWithHistory(ctx, badPhone, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.patients.CreateWithHistory(ctx, newPatient("Ana"), &models.ClinicalHistory{BloodType: "Z+"})
	assert.ErrorIs(t, err, ErrValidation)

	count, err := f.patientRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreatePatient_NormalizesPhone(t *testing.T) {
	f := newFixture(t)
	patient := newPatient("Ana")
	patient.PhoneNumber = "(650) 253-0000"

	created, err := f.patients.CreateWithHistory(context.Background(), patient, nil)
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", created.PhoneNumber)
}

func TestCreatePatient_Duplicate(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	f := newFixture(t, withRedis(client))
	f.createPatient(t, "Ana")

	_, err := f.patients.CreateWithHistory(context.Background(), newPatient(" Ana "), nil)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetPatient_WithoutHistory(t *testing.T) {
	f := newFixture(t)
	patient := f.createBarePatient(t, "Ana")

	got, err := f.patients.Get(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Nil(t, got.History)

	_, err = f.patients.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPatients_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPatient(t, "Ana")
	other := newPatient("Luis")
	other.PaternalSurname = "Benitez"
	_, err := f.patients.CreateWithHistory(ctx, other, nil)
	require.NoError(t, err)

	all, err := f.patients.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Benitez", all[0].PaternalSurname)

	found, err := f.patients.List(ctx, "LUI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Luis", found[0].FirstName)
}

func TestUpdatePatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t, "Ana")

	changes := newPatient("Ana Maria")
	changes.Address = "Calle 5"
	updated, err := f.patients.Update(ctx, patient.ID, changes)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.FirstName)
	assert.Equal(t, "Calle 5", updated.Address)
	assert.Len(t, updated.History.Teeth, models.TeethPerHistory)

	_, err = f.patients.Update(ctx, 9999, newPatient("Nobody"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bare := f.createBarePatient(t, "Ana")
	history, err := f.patients.UpdateHistory(ctx, bare.ID, &models.ClinicalHistory{BloodType: "B-"})
	require.NoError(t, err)
	assert.Equal(t, "B-", history.BloodType)
	assert.Len(t, history.Teeth, models.TeethPerHistory)

	history, err = f.patients.UpdateHistory(ctx, bare.ID, &models.ClinicalHistory{
		BloodType:              "AB+",
		OralHealthObservations: "Gingivitis",
	})
	require.NoError(t, err)
	assert.Equal(t, "AB+", history.BloodType)
	assert.Equal(t, "Gingivitis", history.OralHealthObservations)
	assert.NotEmpty(t, history.OpeningDate)
	assert.Len(t, history.Teeth, models.TeethPerHistory)
}

func TestDeletePatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t, "Ana")
	consultation := f.createConsultation(t, patient.ID)
	procedure := f.createProcedure(t, "Cleaning", "400")
	_, err := f.toothProcedures.Apply(ctx, consultation.ID, ApplyProcedureInput{
		ToothID:     f.toothByNumber(t, patient.ID, 1).ID,
		ProcedureID: procedure.ID,
	})
	require.NoError(t, err)
	_, err = f.appointments.Create(ctx, appointmentInput(patient.ID, "2026-03-02", "09:00", "09:30"))
	require.NoError(t, err)

	require.NoError(t, f.patients.Delete(ctx, patient.ID))

	for _, model := range []interface{}{
		&models.Patient{}, &models.ClinicalHistory{}, &models.Tooth{},
		&models.Consultation{}, &models.ToothProcedure{}, &models.Appointment{},
	} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}

	var catalog int64
	require.NoError(t, f.db.Model(&models.Procedure{}).Count(&catalog).Error)
	assert.EqualValues(t, 1, catalog)
}

func TestDeletePatient_WithPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.createPatient(t, "Ana")
	consultation := f.createConsultation(t, patient.ID)
	_, err := f.payments.Record(ctx, consultation.ID, RecordPaymentInput{
		Amount: decimal.NewFromInt(100),
		Method: models.PaymentCash,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.patients.Delete(ctx, patient.ID), ErrConflict)
	_, err = f.patients.Get(ctx, patient.ID)
	assert.NoError(t, err)
}

func TestPatientCache_FollowsUpdatesAndDelete(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	f := newFixture(t, withRedis(client))
	ctx := context.Background()
	patient := f.createPatient(t, "Ana")
	key := cache.PatientKey(patient.ID)

	_, err := f.patients.Teeth(ctx, patient.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(key))

	_, err = f.patients.Update(ctx, patient.ID, newPatient("Ana Maria"))
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))

	_, err = f.patients.Teeth(ctx, patient.ID)
	require.NoError(t, err)
	cached, err := mr.Get(key)
	require.NoError(t, err)
	assert.Contains(t, cached, "Ana Maria")

	require.NoError(t, f.patients.Delete(ctx, patient.ID))
	assert.False(t, mr.Exists(key))

	_, err = f.patients.Teeth(ctx, patient.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.consultations.Create(ctx, patient.ID, CreateConsultationInput{Reason: "Check-up"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists(key))
}
