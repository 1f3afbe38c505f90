package dto

import "readleaf/models"

// ValidateRequestDTO selects the records one repair batch covers.
// Exactly one selector field should be set; ids win over filterDate,
// which wins over runToday.
type ValidateRequestDTO struct {
	IDs        []string `json:"ids"`
	FilterDate string   `json:"filterDate"`
	RunToday   bool     `json:"runToday"`
}

// ValidateResponseDTO summarizes one repair batch. Success counts the
// records that ended complete, whether they passed as-is or needed
// regeneration.
type ValidateResponseDTO struct {
	Total   int                       `json:"total"`
	Success int                       `json:"success"`
	Failed  int                       `json:"failed"`
	Details []models.ValidationReport `json:"details"`
}
