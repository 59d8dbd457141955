package transaction

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// MatchSnapshotBody is the caller's view of the row's current field values.
// Every field must match a stored row exactly for the update to proceed.
type MatchSnapshotBody struct {
	Date        string `json:"date" required:"true" doc:"Current date, YYYY-MM-DD"`
	Category    string `json:"category" doc:"Current raw category"`
	Description string `json:"description" doc:"Current description"`
	Amount      int64  `json:"amount" required:"true" doc:"Current absolute amount in minor currency units"`
	Method      string `json:"method" doc:"Current payment method"`
	Excluded    bool   `json:"excluded" doc:"Current excluded flag"`
}

// UpdateByMatchBody is the request body for updating by snapshot match.
type UpdateByMatchBody struct {
	Original MatchSnapshotBody `json:"original" required:"true" doc:"Snapshot identifying the row"`
	Updated  UpdateFieldsBody  `json:"updated" required:"true" doc:"Field edits to apply"`
}

// UpdateByMatchInput is the Huma input for updating by snapshot match.
type UpdateByMatchInput struct {
	Direction string `path:"direction" enum:"income,expense" doc:"Direction the row is scoped to"`
	Body      UpdateByMatchBody
}

// UpdateByMatchOutput is the Huma output for updating by snapshot match.
type UpdateByMatchOutput struct {
	Status int
}

// UpdateByMatchHandler handles PATCH /v1/transactions/{direction}/match.
type UpdateByMatchHandler struct {
	Operator *operator.OperatorDelegator
}

// NewUpdateByMatchHandler creates a new UpdateByMatchHandler.
func NewUpdateByMatchHandler(op *operator.OperatorDelegator) *UpdateByMatchHandler {
	return &UpdateByMatchHandler{Operator: op}
}

// Register registers the update-by-match endpoint with the Huma API.
func (h *UpdateByMatchHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction-by-match",
		Method:      http.MethodPatch,
		Path:        "/v1/transactions/{direction}/match",
		Summary:     "Update transaction by snapshot match",
		Description: "Locates a row by exact equality on every snapshot field and applies the edits. Refuses to update when the snapshot is ambiguous.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *UpdateByMatchHandler) handle(ctx context.Context, input *UpdateByMatchInput) (*UpdateByMatchOutput, error) {
	direction, err := parseDirection(input.Direction)
	if err != nil {
		return nil, err
	}
	if input.Body.Original.Amount <= 0 {
		return nil, huma.NewError(http.StatusBadRequest, "original amount must be greater than 0")
	}
	updates, err := parseUpdates(input.Body.Updated)
	if err != nil {
		return nil, err
	}

	action := &actions.UpdateTransactionByMatch{
		Original: transaction.Snapshot{
			Direction:   direction,
			Date:        strings.TrimSpace(input.Body.Original.Date),
			RawCategory: strings.TrimSpace(input.Body.Original.Category),
			Description: strings.TrimSpace(input.Body.Original.Description),
			Amount:      decimal.NewFromInt(input.Body.Original.Amount),
			Method:      strings.TrimSpace(input.Body.Original.Method),
			Excluded:    input.Body.Original.Excluded,
		},
		Updates: updates,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, mapWriteError(err, string(direction)+" transaction not found")
	}

	return &UpdateByMatchOutput{Status: http.StatusOK}, nil
}
