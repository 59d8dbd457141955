package summary

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// MonthlySummaryInput is the Huma input for the monthly summary.
type MonthlySummaryInput struct {
	Year  int `query:"year" minimum:"2000" maximum:"2100" required:"true" doc:"Target year"`
	Month int `query:"month" minimum:"1" maximum:"12" required:"true" doc:"Target month"`
}

// MonthlySummaryResponseBody is the monthly summary response.
type MonthlySummaryResponseBody struct {
	Year              int    `json:"year" doc:"Summarized year"`
	Month             int    `json:"month" doc:"Summarized month"`
	Income            string `json:"income" doc:"Total income, decimal"`
	Expense           string `json:"expense" doc:"Total expense, decimal"`
	NetCashflow       string `json:"netCashflow" doc:"Income minus expense, decimal"`
	TransferUnmatched string `json:"transferUnmatched" doc:"Total of unpaired transfer legs, decimal"`
	TransactionCount  int    `json:"transactionCount" doc:"Number of rows in the month, excluded rows included"`
}

// MonthlySummaryOutput is the Huma output for the monthly summary.
type MonthlySummaryOutput struct {
	Body MonthlySummaryResponseBody
}

// CategoryBreakdownInput is the Huma input for the category breakdown.
type CategoryBreakdownInput struct {
	Year  int `query:"year" minimum:"2000" maximum:"2100" required:"true" doc:"Target year"`
	Month int `query:"month" minimum:"1" maximum:"12" required:"true" doc:"Target month"`
}

// CategoryTotal is one row of the breakdown.
type CategoryTotal struct {
	Category string `json:"category" doc:"Raw category"`
	Amount   string `json:"amount" doc:"Total spent, decimal"`
}

// CategoryBreakdownResponseBody is the category breakdown response.
type CategoryBreakdownResponseBody struct {
	Categories []CategoryTotal `json:"categories" doc:"Expense totals per category, largest first"`
}

// CategoryBreakdownOutput is the Huma output for the category breakdown.
type CategoryBreakdownOutput struct {
	Body CategoryBreakdownResponseBody
}

// CategoryMonthlyTrendInput is the Huma input for the category trend.
type CategoryMonthlyTrendInput struct {
	Year               int    `query:"year" minimum:"2000" maximum:"2100" required:"true" doc:"Target year"`
	Top                int    `query:"top" minimum:"1" maximum:"10" default:"5" doc:"How many categories to track"`
	GroupLevel         string `query:"groupLevel" enum:"major,full" default:"full" doc:"Category grouping level"`
	IncludeEmptyMonths bool   `query:"includeEmptyMonths" doc:"Keep months where every tracked category is zero"`
}

// TrendRow is one month of the category trend.
type TrendRow struct {
	Month  int               `json:"month" doc:"Month number, 1-12"`
	Values map[string]string `json:"values" doc:"Total per tracked category, decimal"`
}

// CategoryMonthlyTrendResponseBody is the category trend response.
type CategoryMonthlyTrendResponseBody struct {
	Year       int        `json:"year" doc:"Covered year"`
	Categories []string   `json:"categories" doc:"Tracked categories, largest yearly total first"`
	Rows       []TrendRow `json:"rows" doc:"Per-month totals for the tracked categories"`
}

// CategoryMonthlyTrendOutput is the Huma output for the category trend.
type CategoryMonthlyTrendOutput struct {
	Body CategoryMonthlyTrendResponseBody
}

// summarizer serves the monthly aggregates.
type summarizer interface {
	MonthlySummary(ctx context.Context, year, month int) (*service.MonthlySummary, error)
	CategoryBreakdown(ctx context.Context, year, month int) ([]service.CategoryTotal, error)
	CategoryMonthlyTrend(ctx context.Context, year, top int, level service.GroupLevel, includeEmptyMonths bool) (*service.CategoryMonthlyTrend, error)
}

// Handler handles the summary and breakdown endpoints.
type Handler struct {
	TransactionService summarizer
}

// NewHandler creates a new summary Handler.
func NewHandler(svc summarizer) *Handler {
	return &Handler{TransactionService: svc}
}

// Register registers the summary endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "monthly-summary",
		Method:      http.MethodGet,
		Path:        "/v1/summary",
		Summary:     "Monthly summary",
		Description: "Totals one month's income, expense and net cash flow.",
		Tags:        []string{"Summary"},
	}, h.handleSummary)
	huma.Register(api, huma.Operation{
		OperationID: "category-breakdown",
		Method:      http.MethodGet,
		Path:        "/v1/category-breakdown",
		Summary:     "Category breakdown",
		Description: "Totals one month's expenses per raw category.",
		Tags:        []string{"Summary"},
	}, h.handleBreakdown)
	huma.Register(api, huma.Operation{
		OperationID: "category-monthly-trend",
		Method:      http.MethodGet,
		Path:        "/v1/category-monthly-trend",
		Summary:     "Category monthly trend",
		Description: "Follows the year's top expense categories month by month.",
		Tags:        []string{"Summary"},
	}, h.handleTrend)
}

func (h *Handler) handleSummary(ctx context.Context, input *MonthlySummaryInput) (*MonthlySummaryOutput, error) {
	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("monthlySummaryMs")
	}
	summary, err := h.TransactionService.MonthlySummary(ctx, input.Year, input.Month)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if ledger.IsValidation(err) {
			return nil, huma.NewError(http.StatusBadRequest, err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to summarize month", err)
	}

	return &MonthlySummaryOutput{Body: MonthlySummaryResponseBody{
		Year:              summary.Year,
		Month:             summary.Month,
		Income:            summary.Income.String(),
		Expense:           summary.Expense.String(),
		NetCashflow:       summary.NetCashflow.String(),
		TransferUnmatched: summary.TransferUnmatched.String(),
		TransactionCount:  summary.TransactionCount,
	}}, nil
}

func (h *Handler) handleBreakdown(ctx context.Context, input *CategoryBreakdownInput) (*CategoryBreakdownOutput, error) {
	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("categoryBreakdownMs")
	}
	totals, err := h.TransactionService.CategoryBreakdown(ctx, input.Year, input.Month)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if ledger.IsValidation(err) {
			return nil, huma.NewError(http.StatusBadRequest, err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to build breakdown", err)
	}

	categories := make([]CategoryTotal, len(totals))
	for i, total := range totals {
		categories[i] = CategoryTotal{
			Category: total.Category,
			Amount:   total.Amount.String(),
		}
	}
	return &CategoryBreakdownOutput{Body: CategoryBreakdownResponseBody{Categories: categories}}, nil
}

func (h *Handler) handleTrend(ctx context.Context, input *CategoryMonthlyTrendInput) (*CategoryMonthlyTrendOutput, error) {
	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("categoryMonthlyTrendMs")
	}
	trend, err := h.TransactionService.CategoryMonthlyTrend(ctx, input.Year, input.Top, service.GroupLevel(input.GroupLevel), input.IncludeEmptyMonths)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if ledger.IsValidation(err) {
			return nil, huma.NewError(http.StatusBadRequest, err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to build trend", err)
	}

	rows := make([]TrendRow, len(trend.Rows))
	for i, row := range trend.Rows {
		values := make(map[string]string, len(row.Values))
		for category, amount := range row.Values {
			values[category] = amount.String()
		}
		rows[i] = TrendRow{Month: row.Month, Values: values}
	}
	return &CategoryMonthlyTrendOutput{Body: CategoryMonthlyTrendResponseBody{
		Year:       trend.Year,
		Categories: trend.Categories,
		Rows:       rows,
	}}, nil
}
