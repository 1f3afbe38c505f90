package services

import (
	"context"

	"readleaf/batch"
	"readleaf/cmd/api/dto"
	"readleaf/models"
)

// RepairRunner is the slice of the batch driver the service uses.
type RepairRunner interface {
	Run(ctx context.Context, sel batch.Selector) (models.BatchSummary, error)
}

// ValidationService encapsulates repair-batch triggering and DTO mapping
type ValidationService struct {
	repairer RepairRunner
}

func NewValidationService(repairer RepairRunner) *ValidationService {
	return &ValidationService{repairer: repairer}
}

// Validate runs one repair batch over the selected articles. Selector
// errors (including malformed dates) surface as batch.ErrInvalidSelector
// before any validation work.
func (s *ValidationService) Validate(ctx context.Context, req dto.ValidateRequestDTO) (dto.ValidateResponseDTO, error) {
	summary, err := s.repairer.Run(ctx, batch.Selector{
		IDs:        req.IDs,
		FilterDate: req.FilterDate,
		RunToday:   req.RunToday,
	})
	if err != nil {
		return dto.ValidateResponseDTO{}, err
	}

	// details는 항상 배열로 직렬화한다 (빈 배치라도 null이 아니라 [])
	details := summary.Details
	if details == nil {
		details = []models.ValidationReport{}
	}

	return dto.ValidateResponseDTO{
		Total:   summary.Total,
		Success: summary.Passed + summary.Regenerated,
		Failed:  summary.Failed,
		Details: details,
	}, nil
}
