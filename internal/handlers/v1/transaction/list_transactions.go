package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// Transaction is the API response model for a transaction inside a listing
// group. It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction UUID"`
	Date        string `json:"date" doc:"Transaction date, YYYY-MM-DD"`
	Category    string `json:"category" doc:"Raw category"`
	Description string `json:"description" doc:"Transaction description"`
	Amount      string `json:"amount" doc:"Absolute decimal amount"`
	Method      string `json:"method" doc:"Payment method"`
	Excluded    bool   `json:"excluded" doc:"Excluded from aggregate totals"`
}

// CategoryGroup is one listing group in the response.
type CategoryGroup struct {
	Category    string        `json:"category" doc:"Group key, major or full category"`
	TotalAmount string        `json:"totalAmount" doc:"Group total, absolute decimal amount"`
	Count       int           `json:"count" doc:"Number of transactions in the group"`
	Items       []Transaction `json:"items" doc:"Transactions, newest first"`
}

// ListTransactionsInput is the Huma input for the grouped listing.
type ListTransactionsInput struct {
	Direction       string `path:"direction" enum:"income,expense" doc:"Direction to list"`
	Year            int    `query:"year" minimum:"2000" maximum:"2100" required:"true" doc:"Target year"`
	Month           int    `query:"month" minimum:"1" maximum:"12" required:"true" doc:"Target month"`
	GroupLevel      string `query:"groupLevel" enum:"major,full" default:"major" doc:"Category grouping level"`
	IncludeExcluded bool   `query:"includeExcluded" doc:"Include rows excluded from totals"`
}

// ListTransactionsResponseBody is the response body for the grouped listing.
type ListTransactionsResponseBody struct {
	Groups []CategoryGroup `json:"groups" doc:"Category groups ordered by total, largest first"`
}

// ListTransactionsOutput is the Huma output for the grouped listing.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for the grouped listing.
type transactionLister interface {
	ListGrouped(ctx context.Context, direction ledger.Direction, year, month int, level service.GroupLevel, includeExcluded bool) ([]service.CategoryGroup, error)
}

// ListTransactionsHandler handles GET /v1/transactions/{direction}.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the listing endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/{direction}",
		Summary:     "List transactions",
		Description: "Returns one month's transactions of a direction, grouped by category.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	direction, err := parseDirection(input.Direction)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	groups, err := h.TransactionService.ListGrouped(
		ctx, direction, input.Year, input.Month,
		service.GroupLevel(input.GroupLevel), input.IncludeExcluded,
	)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if ledger.IsValidation(err) {
			return nil, huma.NewError(http.StatusBadRequest, err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list transactions", err)
	}

	if logData != nil {
		logData.AddData("groupCount", len(groups))
	}

	resp := ListTransactionsResponseBody{
		Groups: make([]CategoryGroup, len(groups)),
	}
	for i, group := range groups {
		items := make([]Transaction, len(group.Items))
		for j, item := range group.Items {
			items[j] = Transaction{
				ID:          item.ID.String(),
				Date:        item.Date,
				Category:    item.Category,
				Description: item.Description,
				Amount:      item.Amount.String(),
				Method:      item.Method,
				Excluded:    item.Excluded,
			}
		}
		resp.Groups[i] = CategoryGroup{
			Category:    group.Category,
			TotalAmount: group.TotalAmount.String(),
			Count:       group.Count,
			Items:       items,
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
