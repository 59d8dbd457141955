package imports

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// ImportBody is the request body for an import. Content is the raw text of
// the uploaded export file; the schema and delimiter are detected from the
// file name and header row.
type ImportBody struct {
	FileName     string `json:"fileName" required:"true" doc:"Name of the uploaded file, used for delimiter detection"`
	Content      string `json:"content" required:"true" doc:"Raw text content of the export file"`
	ReplaceMonth bool   `json:"replaceMonth" doc:"Delete the target month before importing"`
	Year         int    `json:"year" doc:"Target year for replaceMonth, inferred from the rows when 0"`
	Month        int    `json:"month" doc:"Target month for replaceMonth, inferred from the rows when 0"`
}

// ImportInput is the Huma input for an import.
type ImportInput struct {
	Body ImportBody
}

// ImportResponseBody reports the batch counts.
type ImportResponseBody struct {
	Deleted           int `json:"deleted" doc:"Rows removed by month replacement"`
	Imported          int `json:"imported" doc:"Rows inserted"`
	SkippedDuplicates int `json:"skippedDuplicates" doc:"Rows recognized as already present"`
	PairedGroups      int `json:"pairedGroups" doc:"Transfer pairs linked during this batch"`
	RejectedRows      int `json:"rejectedRows" doc:"Rows dropped during normalization"`
}

// ImportOutput is the Huma output for an import.
type ImportOutput struct {
	Body ImportResponseBody
}

// importer runs one import batch end to end.
type importer interface {
	Import(ctx context.Context, input service.ImportInput) (*service.ImportResult, error)
}

// ImportHandler handles POST /v1/transactions/import.
type ImportHandler struct {
	ImportService importer
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(svc importer) *ImportHandler {
	return &ImportHandler{ImportService: svc}
}

// Register registers the import endpoint with the Huma API.
func (h *ImportHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "import-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transactions/import",
		Summary:     "Import transactions",
		Description: "Parses a bank or card export, skips rows already present and inserts the rest. Safe to re-run with the same file.",
		Tags:        []string{"Imports"},
	}, h.handle)
}

func (h *ImportHandler) handle(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("importMs")
	}
	result, err := h.ImportService.Import(ctx, service.ImportInput{
		FileName:     input.Body.FileName,
		Content:      input.Body.Content,
		ReplaceMonth: input.Body.ReplaceMonth,
		Year:         input.Body.Year,
		Month:        input.Body.Month,
	})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if ledger.IsValidation(err) {
			return nil, huma.NewError(http.StatusBadRequest, err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "import failed", err)
	}

	if logData != nil {
		logData.AddData("imported", result.Imported)
		logData.AddData("skippedDuplicates", result.SkippedDuplicates)
		logData.AddData("rejectedRows", result.RejectedRows)
	}

	return &ImportOutput{Body: ImportResponseBody{
		Deleted:           result.Deleted,
		Imported:          result.Imported,
		SkippedDuplicates: result.SkippedDuplicates,
		PairedGroups:      result.PairedGroups,
		RejectedRows:      result.RejectedRows,
	}}, nil
}
