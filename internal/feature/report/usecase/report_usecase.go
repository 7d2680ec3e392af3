// Package usecase implements the read-side report computations. The
// aggregation is pure: all state comes from the RowSource, nothing is
// persisted.
package usecase

import (
	"context"
	"sort"
	"time"

	"finance_backend/internal/feature/ledger/domain/entity"
)

const (
	// DefaultMonths is the monthly trend window when no months parameter
	// is given.
	DefaultMonths = 12
	// MaxMonths caps the monthly trend window.
	MaxMonths = 24
)

// Row is one transaction joined with its category, the unit the reports
// aggregate over.
type Row struct {
	CategoryID   uint                   `json:"category_id"`
	CategoryName string                 `json:"category_name"`
	CategoryType entity.TransactionType `json:"category_type"`
	Amount       float64                `json:"amount"`
	Date         time.Time              `json:"date"`
}

// RowSource yields a user's transaction rows within an inclusive date
// range. Nil bounds are open ends.
type RowSource interface {
	Rows(ctx context.Context, userID uint, start, end *time.Time) ([]Row, error)
}

// Summary is the overall income/expense totals over a window.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
	Balance      float64
	PeriodStart  *time.Time
	PeriodEnd    *time.Time
}

// CategorySummary is one category's share of its type group.
type CategorySummary struct {
	CategoryID       uint
	CategoryName     string
	CategoryType     entity.TransactionType
	Total            float64
	Percentage       float64
	TransactionCount int
}

// ByCategory partitions category summaries by type.
type ByCategory struct {
	Income  []CategorySummary
	Expense []CategorySummary
	Summary Summary
}

// MonthBucket is one month of a monthly trend, with Month formatted as
// "YYYY-MM".
type MonthBucket struct {
	Month   string
	Income  float64
	Expense float64
	Balance float64
}

// MonthlyReport lists month buckets in chronological order. The summary
// covers exactly the included buckets.
type MonthlyReport struct {
	Trends  []MonthBucket
	Summary Summary
}

// ReportUsecase computes aggregated views over a user's ledger.
type ReportUsecase struct {
	rows RowSource
}

// NewReportUsecase creates a ReportUsecase.
func NewReportUsecase(rows RowSource) *ReportUsecase {
	return &ReportUsecase{rows: rows}
}

// Summary returns the income/expense totals over the window. An empty
// window yields all-zero totals, not an error.
func (u *ReportUsecase) Summary(ctx context.Context, userID uint, start, end *time.Time) (*Summary, error) {
	rows, err := u.rows.Rows(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	s := summarize(rows)
	s.PeriodStart = start
	s.PeriodEnd = end
	return &s, nil
}

// ByCategory returns per-category totals partitioned into income and
// expense groups, each ordered by total descending. Categories without a
// transaction in the window are omitted. Within a group, percentages are
// shares of the group total and sum to 100 up to rounding; a non-positive
// group total pins every percentage in the group to zero.
func (u *ReportUsecase) ByCategory(ctx context.Context, userID uint, start, end *time.Time) (*ByCategory, error) {
	rows, err := u.rows.Rows(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	type acc struct {
		name  string
		typ   entity.TransactionType
		total float64
		count int
	}
	byCat := map[uint]*acc{}
	for _, r := range rows {
		a, ok := byCat[r.CategoryID]
		if !ok {
			a = &acc{name: r.CategoryName, typ: r.CategoryType}
			byCat[r.CategoryID] = a
		}
		a.total += r.Amount
		a.count++
	}

	s := summarize(rows)
	s.PeriodStart = start
	s.PeriodEnd = end

	result := &ByCategory{
		Income:  []CategorySummary{},
		Expense: []CategorySummary{},
		Summary: s,
	}
	for id, a := range byCat {
		groupTotal := s.TotalExpense
		if a.typ == entity.TypeIncome {
			groupTotal = s.TotalIncome
		}
		pct := 0.0
		if groupTotal > 0 {
			pct = a.total / groupTotal * 100
		}
		cs := CategorySummary{
			CategoryID:       id,
			CategoryName:     a.name,
			CategoryType:     a.typ,
			Total:            a.total,
			Percentage:       pct,
			TransactionCount: a.count,
		}
		if a.typ == entity.TypeIncome {
			result.Income = append(result.Income, cs)
		} else {
			result.Expense = append(result.Expense, cs)
		}
	}

	byTotalDesc := func(group []CategorySummary) {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Total != group[j].Total {
				return group[i].Total > group[j].Total
			}
			return group[i].CategoryName < group[j].CategoryName
		})
	}
	byTotalDesc(result.Income)
	byTotalDesc(result.Expense)

	return result, nil
}

// Monthly returns the trend over the most recent months with activity,
// capped at the requested window. The transport rejects out-of-range
// windows; should an internal caller pass one anyway it is clamped to
// DefaultMonths. Buckets come back in chronological order and the
// summary covers only the included buckets.
func (u *ReportUsecase) Monthly(ctx context.Context, userID uint, months int) (*MonthlyReport, error) {
	if months < 1 || months > MaxMonths {
		months = DefaultMonths
	}

	rows, err := u.rows.Rows(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		income  float64
		expense float64
	}
	byMonth := map[string]*bucket{}
	for _, r := range rows {
		key := r.Date.Format("2006-01")
		b, ok := byMonth[key]
		if !ok {
			b = &bucket{}
			byMonth[key] = b
		}
		if r.CategoryType == entity.TypeIncome {
			b.income += r.Amount
		} else {
			b.expense += r.Amount
		}
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	report := &MonthlyReport{Trends: make([]MonthBucket, 0, len(keys))}
	for _, k := range keys {
		b := byMonth[k]
		report.Trends = append(report.Trends, MonthBucket{
			Month:   k,
			Income:  b.income,
			Expense: b.expense,
			Balance: b.income - b.expense,
		})
		report.Summary.TotalIncome += b.income
		report.Summary.TotalExpense += b.expense
	}
	report.Summary.Balance = report.Summary.TotalIncome - report.Summary.TotalExpense

	return report, nil
}

func summarize(rows []Row) Summary {
	var s Summary
	for _, r := range rows {
		if r.CategoryType == entity.TypeIncome {
			s.TotalIncome += r.Amount
		} else {
			s.TotalExpense += r.Amount
		}
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s
}
