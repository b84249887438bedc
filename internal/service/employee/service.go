package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	out := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, employee.EmployeeResponse{
			ID:              e.ID,
			ExternalID:      e.ExternalID,
			RosterNumber:    e.RosterNumber,
			Surname:         e.Surname,
			GivenName:       e.GivenName,
			Department:      e.Department,
			TotalDaysWorked: e.TotalDaysWorked,
			TotalHours:      e.TotalHours,
			DaysWithErrors:  e.DaysWithErrors,
		})
	}
	return out, nil
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
	}
}
