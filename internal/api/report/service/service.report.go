// Package reportsvc flattens the company hierarchy into report records and
// answers filtered, sorted and paged queries over them.
package reportsvc

import (
	"context"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	reportmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/report/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/language"
)

// Options tunes report rendering.
type Options struct {
	Locale          string // BCP 47 tag for text sorts
	DefaultPageSize int
	VisibleColumns  int // leading inferred columns marked visible; below 1 means 8
}

// ReportService builds reports from the store.
type ReportService struct {
	store  *store.Store
	users  *authsvc.UserService
	opts   Options
	locale language.Tag
}

func NewReportService(st *store.Store, users *authsvc.UserService, opts Options) *ReportService {
	if opts.DefaultPageSize < 1 {
		opts.DefaultPageSize = 25
	}
	if opts.VisibleColumns < 1 {
		opts.VisibleColumns = 8
	}
	return &ReportService{store: st, users: users, opts: opts, locale: language.Make(opts.Locale)}
}

// Result is the filtered and sorted report before paging.
type Result struct {
	Query   Query
	Records []*reportmodels.Record
	Columns []reportmodels.Column
}

// Run parses raw, builds the report for p and applies the query. companyID
// narrows an admin report to one company; NilObjectID means all.
func (s *ReportService) Run(ctx context.Context, p authmodels.Principal, companyID primitive.ObjectID, raw string) (Result, error) {
	q, err := ParseQuery(raw)
	if err != nil {
		return Result{}, err
	}
	records, err := s.BuildReport(ctx, p, companyID)
	if err != nil {
		return Result{}, err
	}
	columns := InferColumns(records, s.opts.VisibleColumns)
	matched := Apply(records, columns, q, s.locale)

	logger.WithContext(ctx).WithFields(logrus.Fields{
		"user_id": p.UserID.Hex(),
		"role":    p.Role,
		"records": len(records),
		"matched": len(matched),
	}).Debug("report query")

	return Result{Query: q, Records: matched, Columns: columns}, nil
}

// Query returns one page of the report.
func (s *ReportService) Query(ctx context.Context, p authmodels.Principal, companyID primitive.ObjectID, raw string) (reportmodels.Page, error) {
	res, err := s.Run(ctx, p, companyID, raw)
	if err != nil {
		return reportmodels.Page{}, err
	}
	return Paginate(res.Records, res.Columns, res.Query.Pagination, s.opts.DefaultPageSize), nil
}

// Stats summarizes column over the filtered report, ignoring pagination.
func (s *ReportService) Stats(ctx context.Context, p authmodels.Principal, companyID primitive.ObjectID, raw, column string) (reportmodels.ColumnStats, error) {
	if column == "" {
		return reportmodels.ColumnStats{}, errColumnRequired
	}
	res, err := s.Run(ctx, p, companyID, raw)
	if err != nil {
		return reportmodels.ColumnStats{}, err
	}
	return ColumnStats(res.Records, column), nil
}
