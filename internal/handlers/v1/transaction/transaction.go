package transaction

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
)

// UpdateFieldsBody carries the optional field edits of an update request.
// Absent fields are left untouched. Amount is a positive magnitude; the
// stored sign follows the row's direction.
type UpdateFieldsBody struct {
	Date        *string `json:"date,omitempty" doc:"New date, YYYY-MM-DD"`
	Category    *string `json:"category,omitempty" doc:"New raw category, blank maps to the unclassified sentinel"`
	Description *string `json:"description,omitempty" doc:"New description, also applied to merchant"`
	Amount      *int64  `json:"amount,omitempty" doc:"New absolute amount in minor currency units"`
	Method      *string `json:"method,omitempty" doc:"New payment method"`
	Excluded    *bool   `json:"excluded,omitempty" doc:"Exclude from aggregate totals"`
}

// parseDirection restricts the path parameter to the directions the CRUD
// surface is scoped by.
func parseDirection(raw string) (ledger.Direction, error) {
	direction := ledger.Direction(strings.ToLower(raw))
	if direction != ledger.DirectionIncome && direction != ledger.DirectionExpense {
		return "", huma.NewError(http.StatusBadRequest, "direction must be income or expense")
	}
	return direction, nil
}

// parseUpdates validates and converts the body into the action-level update
// set.
func parseUpdates(body UpdateFieldsBody) (actions.TransactionUpdates, error) {
	var updates actions.TransactionUpdates

	if body.Date != nil {
		cleaned := strings.TrimSpace(*body.Date)
		if cleaned == "" {
			return updates, huma.NewError(http.StatusBadRequest, "date cannot be blank")
		}
		occurredAt, err := time.Parse(ledger.DateLayout, cleaned)
		if err != nil {
			return updates, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		updates.OccurredAt = &occurredAt
	}

	if body.Category != nil {
		cleaned := strings.TrimSpace(*body.Category)
		if cleaned == "" {
			cleaned = ledger.CategoryUnclassified
		}
		updates.RawCategory = &cleaned
	}

	if body.Description != nil {
		cleaned := strings.TrimSpace(*body.Description)
		updates.Description = &cleaned
	}

	if body.Amount != nil {
		if *body.Amount <= 0 {
			return updates, huma.NewError(http.StatusBadRequest, "amount must be greater than 0")
		}
		amount := decimal.NewFromInt(*body.Amount)
		updates.Amount = &amount
	}

	if body.Method != nil {
		cleaned := strings.TrimSpace(*body.Method)
		updates.Method = &cleaned
	}

	updates.Excluded = body.Excluded
	return updates, nil
}

// mapWriteError converts service-level failures into HTTP errors.
func mapWriteError(err error, notFoundMsg string) error {
	switch {
	case ledger.IsValidation(err):
		return huma.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		return huma.NewError(http.StatusNotFound, notFoundMsg)
	case errors.Is(err, ledger.ErrConflict):
		return huma.NewError(http.StatusConflict, "multiple transactions matched; cannot update safely")
	case errors.Is(err, ledger.ErrDuplicateFingerprint):
		return huma.NewError(http.StatusConflict, "an identical transaction already exists")
	default:
		return huma.NewError(http.StatusInternalServerError, "transaction write failed", err)
	}
}
