package imports

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/service"
)

type mockImporter struct {
	mock.Mock
}

func (m *mockImporter) Import(ctx context.Context, input service.ImportInput) (*service.ImportResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*service.ImportResult)
	return result, args.Error(1)
}

func newTestAPI(t *testing.T, svc importer) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewImportHandler(svc).Register(api)
	return api
}

func TestHTTP_Import(t *testing.T) {
	mockSvc := new(mockImporter)
	mockSvc.On("Import", mock.Anything, service.ImportInput{
		FileName:     "june.tsv",
		Content:      "raw rows",
		ReplaceMonth: true,
		Year:         2025,
		Month:        6,
	}).Return(&service.ImportResult{
		Deleted:           120,
		Imported:          95,
		SkippedDuplicates: 25,
		PairedGroups:      3,
		RejectedRows:      2,
	}, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/transactions/import", ImportBody{
		FileName:     "june.tsv",
		Content:      "raw rows",
		ReplaceMonth: true,
		Year:         2025,
		Month:        6,
	})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ImportResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 120, body.Deleted)
	assert.Equal(t, 95, body.Imported)
	assert.Equal(t, 25, body.SkippedDuplicates)
	assert.Equal(t, 3, body.PairedGroups)
	assert.Equal(t, 2, body.RejectedRows)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_Import_ValidationError(t *testing.T) {
	mockSvc := new(mockImporter)
	mockSvc.On("Import", mock.Anything, mock.Anything).
		Return((*service.ImportResult)(nil), ledger.NewValidationError("unsupported header set"))

	resp := newTestAPI(t, mockSvc).Post("/v1/transactions/import", ImportBody{
		FileName: "bogus.csv",
		Content:  "foo,bar\n1,2\n",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_Import_MissingContent(t *testing.T) {
	mockSvc := new(mockImporter)

	resp := newTestAPI(t, mockSvc).Post("/v1/transactions/import", map[string]any{
		"fileName": "june.tsv",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "Import")
}
