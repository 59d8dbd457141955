package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
)

// UpdateTransactionInput is the Huma input for updating a transaction by id.
type UpdateTransactionInput struct {
	Direction string `path:"direction" enum:"income,expense" doc:"Direction the row is scoped to"`
	ID        string `path:"id" doc:"Transaction UUID"`
	Body      UpdateFieldsBody
}

// UpdateTransactionOutput is the Huma output for updating a transaction.
type UpdateTransactionOutput struct {
	Status int
}

// UpdateTransactionHandler handles PATCH /v1/transactions/{direction}/{id}.
type UpdateTransactionHandler struct {
	Operator *operator.OperatorDelegator
}

// NewUpdateTransactionHandler creates a new UpdateTransactionHandler.
func NewUpdateTransactionHandler(op *operator.OperatorDelegator) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{Operator: op}
}

// Register registers the update endpoint with the Huma API.
func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/transactions/{direction}/{id}",
		Summary:     "Update transaction",
		Description: "Updates a transaction located by id and recomputes its import fingerprint.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	direction, err := parseDirection(input.Direction)
	if err != nil {
		return nil, err
	}
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transaction id", err)
	}
	updates, err := parseUpdates(input.Body)
	if err != nil {
		return nil, err
	}

	action := &actions.UpdateTransaction{
		ID:        id,
		Direction: direction,
		Updates:   updates,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, mapWriteError(err, string(direction)+" transaction not found")
	}

	return &UpdateTransactionOutput{Status: http.StatusOK}, nil
}
