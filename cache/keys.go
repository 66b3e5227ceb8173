package cache

import "fmt"

// Keys shared by the repositories and the seed commands.
const (
	ProcedureListKey    = "procedures_cache"
	ProcedureKeyPattern = "procedure_cache:*"
	PatientKeyPattern   = "patient_cache:*"
)

func ProcedureKey(id uint) string {
	return fmt.Sprintf("procedure_cache:%d", id)
}

func PatientKey(id uint) string {
	return fmt.Sprintf("patient_cache:%d", id)
}
