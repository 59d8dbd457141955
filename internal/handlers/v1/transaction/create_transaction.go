package transaction

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Date        string `json:"date" required:"true" doc:"Transaction date, YYYY-MM-DD"`
	Direction   string `json:"direction" required:"true" enum:"income,expense" doc:"Cash flow direction"`
	Category    string `json:"category" doc:"Raw category, blank maps to the unclassified sentinel"`
	Description string `json:"description" required:"true" doc:"Transaction description"`
	Amount      int64  `json:"amount" required:"true" doc:"Absolute amount in minor currency units"`
	Method      string `json:"method" doc:"Payment method"`
	Memo        string `json:"memo" doc:"Free-text memo"`
	Excluded    bool   `json:"excluded" doc:"Exclude from aggregate totals"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionResponseBody is the response body for creating a transaction.
type CreateTransactionResponseBody struct {
	ID string `json:"id" doc:"Transaction UUID"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponseBody
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	Operator *operator.OperatorDelegator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(op *operator.OperatorDelegator) *CreateTransactionHandler {
	return &CreateTransactionHandler{Operator: op}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Create transaction",
		Description: "Creates a single manually entered transaction.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	if input.Body.Amount <= 0 {
		return nil, huma.NewError(http.StatusBadRequest, "amount must be greater than 0")
	}

	cleanedDate := strings.TrimSpace(input.Body.Date)
	if cleanedDate == "" {
		return nil, huma.NewError(http.StatusBadRequest, "date cannot be blank")
	}
	occurredAt, err := time.Parse(ledger.DateLayout, cleanedDate)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid date", err)
	}

	description := strings.TrimSpace(input.Body.Description)
	if description == "" {
		return nil, huma.NewError(http.StatusBadRequest, "description cannot be blank")
	}

	category := strings.TrimSpace(input.Body.Category)
	if category == "" {
		category = ledger.CategoryUnclassified
	}

	action := &actions.CreateTransaction{
		OccurredAt:  occurredAt,
		Direction:   ledger.Direction(input.Body.Direction),
		RawCategory: category,
		Description: description,
		Amount:      decimal.NewFromInt(input.Body.Amount),
		Method:      strings.TrimSpace(input.Body.Method),
		Memo:        strings.TrimSpace(input.Body.Memo),
		Excluded:    input.Body.Excluded,
	}

	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, mapWriteError(err, "transaction not found")
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   CreateTransactionResponseBody{ID: action.CreatedID.String()},
	}, nil
}
