package routes

import (
	"GlobalDent/cache"
	"GlobalDent/config"
	"GlobalDent/controllers"
	"GlobalDent/database"
	"GlobalDent/handlers"
	"GlobalDent/metrics"
	"GlobalDent/middlewares"
	"GlobalDent/repositories"
	"GlobalDent/services"
	"GlobalDent/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const lockTTL = 10 * time.Second

// Dependencies are the shared resources the HTTP layer is built on.
type Dependencies struct {
	Config  *config.AppConfig
	DB      *gorm.DB
	Redis   *redis.Client
	Metrics *metrics.Metrics
	Mailer  utils.Mailer
}

// Services wires repositories and services on top of the dependencies.
// It is shared by the HTTP server and the command line.
type Services struct {
	Tokens          *utils.TokenMaker
	Users           services.UserService
	Provisioning    *services.ProvisioningService
	Patients        *services.PatientService
	Billing         *services.BillingService
	Consultations   *services.ConsultationService
	ToothProcedures *services.ToothProcedureService
	Payments        *services.PaymentService
	Procedures      *services.ProcedureService
	Appointments    *services.AppointmentService
	Dashboard       *services.DashboardService
}

func NewServices(deps Dependencies) (*Services, error) {
	tokens, err := utils.NewTokenMaker(deps.Config.SymmetricKey)
	if err != nil {
		return nil, err
	}

	appCache := cache.NewCache(deps.Redis)
	locker := database.NewLocker(deps.Redis, lockTTL)
	txManager := repositories.NewTxManager(deps.DB)

	patientRepo := repositories.NewPatientRepository(deps.DB, appCache)
	historyRepo := repositories.NewClinicalHistoryRepository(deps.DB)
	toothRepo := repositories.NewToothRepository(deps.DB)
	consultationRepo := repositories.NewConsultationRepository(deps.DB)
	procedureRepo := repositories.NewProcedureRepository(deps.DB, appCache)
	toothProcedureRepo := repositories.NewToothProcedureRepository(deps.DB)
	paymentRepo := repositories.NewPaymentRepository(deps.DB)
	appointmentRepo := repositories.NewAppointmentRepository(deps.DB)
	userRepo := repositories.NewUserRepository(deps.DB, appCache)

	provisioning := services.NewProvisioningService(
		txManager, patientRepo, historyRepo, toothRepo, deps.Config.PartialTeethPolicy, deps.Metrics,
	)
	billing := services.NewBillingService(consultationRepo, paymentRepo)

	return &Services{
		Tokens: tokens,
		Users: services.NewUserService(
			userRepo, tokens, utils.NewResetCodeStore(appCache), deps.Mailer, locker,
		),
		Provisioning: provisioning,
		Patients: services.NewPatientService(
			txManager, patientRepo, historyRepo, toothRepo, paymentRepo,
			provisioning, locker, deps.Config.DefaultPhoneRegion,
		),
		Billing:       billing,
		Consultations: services.NewConsultationService(consultationRepo, patientRepo, userRepo, billing),
		ToothProcedures: services.NewToothProcedureService(
			txManager, consultationRepo, procedureRepo, toothProcedureRepo, toothRepo, billing,
		),
		Payments:     services.NewPaymentService(paymentRepo, consultationRepo),
		Procedures:   services.NewProcedureService(procedureRepo),
		Appointments: services.NewAppointmentService(appointmentRepo, patientRepo, consultationRepo, userRepo),
		Dashboard:    services.NewDashboardService(patientRepo, consultationRepo, toothProcedureRepo, paymentRepo),
	}, nil
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(deps Dependencies) (http.Handler, error) {
	svc, err := NewServices(deps)
	if err != nil {
		return nil, err
	}

	if !deps.Config.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestIDMiddleware())
	router.Use(middlewares.LoggingMiddleware(deps.Metrics))
	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig(deps.Config.CORSOrigins)))
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: deps.Config.RateLimitRPS,
		Burst:             deps.Config.RateLimitBurst,
	}))

	controllers.SetupRootRoute(router, deps.DB, deps.Redis)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	authController := controllers.NewAuthController(handlers.NewAuthHandler(svc.Users), svc.Tokens)
	authController.RegisterRoutes(router)

	api := router.Group("/api", middlewares.TokenAuthMiddleware(svc.Tokens))
	controllers.SetupClinicRoutes(api, controllers.ClinicHandlers{
		Patients:      handlers.NewPatientHandler(svc.Patients, svc.Provisioning),
		Consultations: handlers.NewConsultationHandler(svc.Consultations, svc.ToothProcedures, svc.Payments),
		Procedures:    handlers.NewProcedureHandler(svc.Procedures),
		Appointments:  handlers.NewAppointmentHandler(svc.Appointments),
		Dashboard:     handlers.NewDashboardHandler(svc.Dashboard),
	})

	return router, nil
}
