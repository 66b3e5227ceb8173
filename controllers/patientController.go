package controllers

import (
	"GlobalDent/handlers"

	"github.com/gin-gonic/gin"
)

// ClinicHandlers groups the handlers behind the authenticated clinic API.
type ClinicHandlers struct {
	Patients      *handlers.PatientHandler
	Consultations *handlers.ConsultationHandler
	Procedures    *handlers.ProcedureHandler
	Appointments  *handlers.AppointmentHandler
	Dashboard     *handlers.DashboardHandler
}

func SetupClinicRoutes(router gin.IRouter, h ClinicHandlers) {
	router.GET("/dashboard", h.Dashboard.GetDashboard)

	router.POST("/patients", h.Patients.CreatePatient)
	router.GET("/patients", h.Patients.GetAllPatients)
	router.GET("/patients/:patient_id", h.Patients.GetPatientByID)
	router.PUT("/patients/:patient_id", h.Patients.UpdatePatient)
	router.DELETE("/patients/:patient_id", h.Patients.DeletePatient)
	router.PUT("/patients/:patient_id/history", h.Patients.UpdateHistory)
	router.POST("/patients/:patient_id/history/provision", h.Patients.ProvisionHistory)
	router.GET("/patients/:patient_id/teeth", h.Patients.GetTeeth)
	router.POST("/patients/:patient_id/consultations", h.Consultations.CreateConsultation)

	router.GET("/consultations", h.Consultations.GetAllConsultations)
	router.GET("/consultations/:id", h.Consultations.GetConsultationByID)
	router.PUT("/consultations/:id", h.Consultations.UpdateConsultation)
	router.GET("/consultations/:id/balance", h.Consultations.GetBalance)
	router.GET("/consultations/:id/teeth", h.Consultations.GetTeeth)
	router.GET("/consultations/:id/procedures", h.Consultations.GetProcedures)
	router.POST("/consultations/:id/procedures", h.Consultations.ApplyProcedure)
	router.GET("/consultations/:id/payments", h.Consultations.GetPayments)
	router.POST("/consultations/:id/payments", h.Consultations.RecordPayment)
	router.DELETE("/tooth-procedures/:id", h.Consultations.RemoveProcedure)
	router.DELETE("/payments/:id", h.Consultations.DeletePayment)

	router.POST("/procedures", h.Procedures.CreateProcedure)
	router.GET("/procedures", h.Procedures.GetAllProcedures)
	router.GET("/procedures/:id", h.Procedures.GetProcedureByID)
	router.PUT("/procedures/:id", h.Procedures.UpdateProcedure)
	router.DELETE("/procedures/:id", h.Procedures.DeleteProcedure)

	router.POST("/appointments", h.Appointments.CreateAppointment)
	router.GET("/appointments", h.Appointments.GetAllAppointments)
	router.GET("/appointments/:id", h.Appointments.GetAppointmentByID)
	router.PUT("/appointments/:id", h.Appointments.UpdateAppointment)
	router.DELETE("/appointments/:id", h.Appointments.DeleteAppointment)
}
