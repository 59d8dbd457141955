package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/ledger-server/internal/service"
)

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) MonthlySummary(ctx context.Context, year, month int) (*service.MonthlySummary, error) {
	args := m.Called(ctx, year, month)
	summary, _ := args.Get(0).(*service.MonthlySummary)
	return summary, args.Error(1)
}

func (m *mockSummarizer) CategoryBreakdown(ctx context.Context, year, month int) ([]service.CategoryTotal, error) {
	args := m.Called(ctx, year, month)
	totals, _ := args.Get(0).([]service.CategoryTotal)
	return totals, args.Error(1)
}

func (m *mockSummarizer) CategoryMonthlyTrend(ctx context.Context, year, top int, level service.GroupLevel, includeEmptyMonths bool) (*service.CategoryMonthlyTrend, error) {
	args := m.Called(ctx, year, top, level, includeEmptyMonths)
	trend, _ := args.Get(0).(*service.CategoryMonthlyTrend)
	return trend, args.Error(1)
}

func newTestAPI(t *testing.T, svc summarizer) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

func TestHTTP_MonthlySummary(t *testing.T) {
	mockSvc := new(mockSummarizer)
	mockSvc.On("MonthlySummary", mock.Anything, 2025, 6).
		Return(&service.MonthlySummary{
			Year:              2025,
			Month:             6,
			Income:            decimal.RequireFromString("2500000"),
			Expense:           decimal.RequireFromString("820000"),
			NetCashflow:       decimal.RequireFromString("1680000"),
			TransferUnmatched: decimal.RequireFromString("50000"),
			TransactionCount:  42,
		}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/summary?year=2025&month=6")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body MonthlySummaryResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2500000", body.Income)
	assert.Equal(t, "1680000", body.NetCashflow)
	assert.Equal(t, "50000", body.TransferUnmatched)
	assert.Equal(t, 42, body.TransactionCount)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_MonthlySummary_MonthOutOfRange(t *testing.T) {
	mockSvc := new(mockSummarizer)

	resp := newTestAPI(t, mockSvc).Get("/v1/summary?year=2025&month=13")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "MonthlySummary")
}

func TestHTTP_CategoryBreakdown(t *testing.T) {
	mockSvc := new(mockSummarizer)
	mockSvc.On("CategoryBreakdown", mock.Anything, 2025, 6).
		Return([]service.CategoryTotal{
			{Category: "교통>택시", Amount: decimal.RequireFromString("30000")},
			{Category: "식비>외식", Amount: decimal.RequireFromString("15000")},
		}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/category-breakdown?year=2025&month=6")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body CategoryBreakdownResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Categories, 2)
	assert.Equal(t, "교통>택시", body.Categories[0].Category)
	assert.Equal(t, "30000", body.Categories[0].Amount)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CategoryMonthlyTrend(t *testing.T) {
	mockSvc := new(mockSummarizer)
	mockSvc.On("CategoryMonthlyTrend", mock.Anything, 2025, 3, service.GroupLevelMajor, true).
		Return(&service.CategoryMonthlyTrend{
			Year:       2025,
			Categories: []string{"식비", "교통"},
			Rows: []service.MonthCategoryTotals{
				{Month: 1, Values: map[string]decimal.Decimal{
					"식비": decimal.RequireFromString("120000"),
					"교통": decimal.RequireFromString("45000"),
				}},
				{Month: 2, Values: map[string]decimal.Decimal{
					"식비": decimal.Zero,
					"교통": decimal.Zero,
				}},
			},
		}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/category-monthly-trend?year=2025&top=3&groupLevel=major&includeEmptyMonths=true")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body CategoryMonthlyTrendResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"식비", "교통"}, body.Categories)
	assert.Len(t, body.Rows, 2)
	assert.Equal(t, "120000", body.Rows[0].Values["식비"])
	assert.Equal(t, "0", body.Rows[1].Values["교통"])
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CategoryMonthlyTrend_Defaults(t *testing.T) {
	mockSvc := new(mockSummarizer)
	mockSvc.On("CategoryMonthlyTrend", mock.Anything, 2025, 5, service.GroupLevelFull, false).
		Return(&service.CategoryMonthlyTrend{Year: 2025}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/category-monthly-trend?year=2025")

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CategoryMonthlyTrend_TopOutOfRange(t *testing.T) {
	mockSvc := new(mockSummarizer)

	resp := newTestAPI(t, mockSvc).Get("/v1/category-monthly-trend?year=2025&top=11")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CategoryMonthlyTrend")
}
