package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/google/uuid"
)

type employeeRepository struct {
	s *Store
}

func (r *employeeRepository) Upsert(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if e.ExternalID == "" {
		return employee.Employee{}, employee.ErrExternalIDRequired
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ts := now()
	if id, ok := r.s.externalID[e.ExternalID]; ok {
		stored := r.s.employees[id]
		stored.Surname = e.Surname
		stored.GivenName = e.GivenName
		if e.RosterNumber != nil {
			stored.RosterNumber = e.RosterNumber
		}
		if e.Department != nil {
			stored.Department = e.Department
		}
		stored.Active = true
		stored.UpdatedAt = ts
		r.s.employees[id] = stored
		return stored, nil
	}

	e.ID = uuid.NewString()
	e.Active = true
	e.CreatedAt = ts
	e.UpdatedAt = ts
	r.s.employees[e.ID] = e
	r.s.externalID[e.ExternalID] = e.ID
	return e, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) GetByExternalID(ctx context.Context, externalID string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.externalID[externalID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.s.employees[id], nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.EmployeeWithStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]employee.EmployeeWithStats, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		if !e.Active {
			continue
		}
		row := employee.EmployeeWithStats{Employee: e}
		for _, byEmployee := range r.s.rollups {
			if ru, ok := byEmployee[e.ID]; ok {
				row.TotalDaysWorked += ru.DaysWorked
				row.TotalHours += ru.TotalHours
				row.DaysWithErrors += ru.DaysWithErrors
			}
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Surname != out[j].Surname {
			return out[i].Surname < out[j].Surname
		}
		return out[i].GivenName < out[j].GivenName
	})
	return out, nil
}

func (r *employeeRepository) CountActive(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, e := range r.s.employees {
		if e.Active {
			n++
		}
	}
	return n, nil
}
