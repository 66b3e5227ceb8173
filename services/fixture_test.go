package services

import (
	"context"
	"testing"
	"time"

	"GlobalDent/cache"
	"GlobalDent/config"
	"GlobalDent/database"
	"GlobalDent/metrics"
	"GlobalDent/models"
	"GlobalDent/repositories"
	"GlobalDent/testutil"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	metrics *metrics.Metrics

	patientRepo      *repositories.PatientRepository
	historyRepo      *repositories.ClinicalHistoryRepository
	toothRepo        *repositories.ToothRepository
	consultationRepo *repositories.ConsultationRepository
	procedureRepo    *repositories.ProcedureRepository
	paymentRepo      *repositories.PaymentRepository

	provisioning    *ProvisioningService
	patients        *PatientService
	billing         *BillingService
	consultations   *ConsultationService
	toothProcedures *ToothProcedureService
	payments        *PaymentService
	procedures      *ProcedureService
	appointments    *AppointmentService
	dashboard       *DashboardService
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	policy string
	redis  *redis.Client
}

func withPolicy(policy string) fixtureOption {
	return func(c *fixtureConfig) { c.policy = policy }
}

func withRedis(client *redis.Client) fixtureOption {
	return func(c *fixtureConfig) { c.redis = client }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cfg := fixtureConfig{policy: config.PartialPolicyTopUp}
	for _, opt := range opts {
		opt(&cfg)
	}

	db := testutil.NewDB(t)
	appCache := cache.NewCache(cfg.redis)
	txManager := repositories.NewTxManager(db)

	f := &fixture{
		db:               db,
		metrics:          metrics.New(),
		patientRepo:      repositories.NewPatientRepository(db, appCache),
		historyRepo:      repositories.NewClinicalHistoryRepository(db),
		toothRepo:        repositories.NewToothRepository(db),
		consultationRepo: repositories.NewConsultationRepository(db),
		procedureRepo:    repositories.NewProcedureRepository(db, appCache),
		paymentRepo:      repositories.NewPaymentRepository(db),
	}
	toothProcedureRepo := repositories.NewToothProcedureRepository(db)
	userRepo := repositories.NewUserRepository(db, appCache)
	appointmentRepo := repositories.NewAppointmentRepository(db)

	f.provisioning = NewProvisioningService(txManager, f.patientRepo, f.historyRepo, f.toothRepo, cfg.policy, f.metrics)
	f.patients = NewPatientService(txManager, f.patientRepo, f.historyRepo, f.toothRepo, f.paymentRepo,
		f.provisioning, database.NewLocker(cfg.redis, 5*time.Second), "US")
	f.billing = NewBillingService(f.consultationRepo, f.paymentRepo)
	f.consultations = NewConsultationService(f.consultationRepo, f.patientRepo, userRepo, f.billing)
	f.toothProcedures = NewToothProcedureService(txManager, f.consultationRepo, f.procedureRepo,
		toothProcedureRepo, f.toothRepo, f.billing)
	f.payments = NewPaymentService(f.paymentRepo, f.consultationRepo)
	f.procedures = NewProcedureService(f.procedureRepo)
	f.appointments = NewAppointmentService(appointmentRepo, f.patientRepo, f.consultationRepo, userRepo)
	f.dashboard = NewDashboardService(f.patientRepo, f.consultationRepo, toothProcedureRepo, f.paymentRepo)
	return f
}

func newPatient(firstName string) *models.Patient {
	return &models.Patient{
		FirstName:       firstName,
		PaternalSurname: "Garcia",
		MaternalSurname: "Lopez",
		Gender:          "F",
		DateOfBirth:     "1990-05-01",
	}
}

// createPatient registers a patient through the full provisioning path.
func (f *fixture) createPatient(t *testing.T, firstName string) *models.Patient {
	t.Helper()
	patient, err := f.patients.CreateWithHistory(context.Background(), newPatient(firstName), nil)
	require.NoError(t, err)
	return patient
}

// createBarePatient inserts a patient without history or teeth.
func (f *fixture) createBarePatient(t *testing.T, firstName string) *models.Patient {
	t.Helper()
	patient := newPatient(firstName)
	require.NoError(t, f.patientRepo.Create(context.Background(), patient))
	return patient
}

func (f *fixture) createProcedure(t *testing.T, name, basePrice string) *models.Procedure {
	t.Helper()
	procedure, err := f.procedures.Create(context.Background(), &models.Procedure{
		Name:      name,
		BasePrice: decimal.RequireFromString(basePrice),
	})
	require.NoError(t, err)
	return procedure
}

func (f *fixture) createConsultation(t *testing.T, patientID uint) *models.Consultation {
	t.Helper()
	consultation, err := f.consultations.Create(context.Background(), patientID, CreateConsultationInput{Reason: "Check-up"})
	require.NoError(t, err)
	return consultation
}

func (f *fixture) createOperator(t *testing.T, username, roleName string) *models.User {
	t.Helper()
	var role models.Role
	require.NoError(t, f.db.Where("name = ?", roleName).First(&role).Error)
	user := &models.User{Username: username, Email: username + "@clinic.test", Password: "hash", RoleID: role.ID}
	require.NoError(t, f.db.Omit("Role").Create(user).Error)
	return user
}

func (f *fixture) toothByNumber(t *testing.T, patientID uint, number int) models.Tooth {
	t.Helper()
	teeth, err := f.toothRepo.ListByPatient(context.Background(), patientID)
	require.NoError(t, err)
	for _, tooth := range teeth {
		if tooth.Number == number {
			return tooth
		}
	}
	t.Fatalf("patient %d has no tooth %d", patientID, number)
	return models.Tooth{}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
