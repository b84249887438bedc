package memory

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/importing"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
)

type importRepository struct {
	s *Store
}

func (r *importRepository) Create(ctx context.Context, imp importing.Import) (importing.Import, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	imp.CreatedAt = now()
	r.s.imports = append(r.s.imports, imp)
	return imp, nil
}

func (r *importRepository) Finish(ctx context.Context, imp importing.Import) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.imports {
		if r.s.imports[i].ID == imp.ID {
			ts := now()
			imp.CreatedAt = r.s.imports[i].CreatedAt
			imp.FinishedAt = &ts
			r.s.imports[i] = imp
			return nil
		}
	}
	return nil
}

func (r *importRepository) List(ctx context.Context, limit int) ([]importing.Import, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]importing.Import, 0, len(r.s.imports))
	for i := len(r.s.imports) - 1; i >= 0; i-- {
		out = append(out, r.s.imports[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type rawPunchRepository struct {
	s *Store
}

func (r *rawPunchRepository) BulkCreate(ctx context.Context, importID string, punches []punch.Canonical) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range punches {
		r.s.rawPunches = append(r.s.rawPunches, punch.Raw{
			ID:             int64(len(r.s.rawPunches) + 1),
			ImportID:       importID,
			ExternalID:     p.ExternalID,
			FullName:       p.FullName(),
			Timestamp:      p.Timestamp,
			Direction:      p.Direction,
			Classification: p.Classification,
			NewStatus:      p.NewStatus,
			Operation:      p.Operation,
			CreatedAt:      now(),
		})
	}
	return int64(len(punches)), nil
}

func (r *rawPunchRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.s.rawPunches)), nil
}

type reportRepository struct {
	s *Store
}

func (r *reportRepository) Create(ctx context.Context, rep report.Report) (report.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rep.CreatedAt = now()
	r.s.reports = append(r.s.reports, rep)
	return rep, nil
}

// ReportRecords returns a copy of every stored report record.
func (s *Store) ReportRecords() []report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]report.Report(nil), s.reports...)
}
