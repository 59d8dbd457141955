package transfers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// UnmatchedTransfer is one transfer leg still waiting for its opposite leg.
type UnmatchedTransfer struct {
	ID             string `json:"id" doc:"Transaction UUID"`
	OccurredAt     string `json:"occurredAt" doc:"Timestamp of the leg, RFC 3339"`
	Amount         string `json:"amount" doc:"Signed decimal amount"`
	Description    string `json:"description" doc:"Transaction description"`
	Currency       string `json:"currency" doc:"ISO currency code"`
	ReviewRequired bool   `json:"reviewRequired" doc:"Flagged for manual review"`
}

// ListUnmatchedResponseBody is the response body for the unmatched listing.
type ListUnmatchedResponseBody struct {
	Transfers []UnmatchedTransfer `json:"transfers" doc:"Unpaired transfer legs, oldest first"`
}

// ListUnmatchedOutput is the Huma output for the unmatched listing.
type ListUnmatchedOutput struct {
	Body ListUnmatchedResponseBody
}

// transferLister serves the unmatched transfer listing.
type transferLister interface {
	UnmatchedTransfers(ctx context.Context) ([]service.UnmatchedTransfer, error)
}

// Handler handles GET /v1/transfers/unmatched.
type Handler struct {
	TransactionService transferLister
}

// NewHandler creates a new transfers Handler.
func NewHandler(svc transferLister) *Handler {
	return &Handler{TransactionService: svc}
}

// Register registers the unmatched transfers endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-unmatched-transfers",
		Method:      http.MethodGet,
		Path:        "/v1/transfers/unmatched",
		Summary:     "List unmatched transfers",
		Description: "Lists transfer legs that were never paired with an opposite leg.",
		Tags:        []string{"Transfers"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*ListUnmatchedOutput, error) {
	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("unmatchedTransfersMs")
	}
	rows, err := h.TransactionService.UnmatchedTransfers(ctx)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list unmatched transfers", err)
	}

	if logData != nil {
		logData.AddData("unmatchedCount", len(rows))
	}

	transfers := make([]UnmatchedTransfer, len(rows))
	for i, row := range rows {
		transfers[i] = UnmatchedTransfer{
			ID:             row.ID.String(),
			OccurredAt:     row.OccurredAt.Format(time.RFC3339),
			Amount:         row.Amount.String(),
			Description:    row.Description,
			Currency:       row.Currency,
			ReviewRequired: row.ReviewRequired,
		}
	}
	return &ListUnmatchedOutput{Body: ListUnmatchedResponseBody{Transfers: transfers}}, nil
}
