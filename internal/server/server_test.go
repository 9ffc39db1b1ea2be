// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/alphafold"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/httputil"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/metrics"
	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

var hemoglobin = types.Prediction{
	EntryID:          "AF-P69905-F1",
	AccessionID:      "P69905",
	StructureVersion: "4",
	Confidence:       []float64{95, 60, 91, 40},
}

// stubService answers from fixed data. "P69905" exists, "EMPTY" has no
// prediction, "BAD!" is invalid and "DOWN" fails remotely.
type stubService struct {
	panicOn   string
	gotFormat types.StructureFormat
}

func (s *stubService) check(id string) error {
	switch id {
	case s.panicOn:
		panic("boom")
	case "BAD!":
		return fmt.Errorf("%w: %q", alphafold.ErrInvalidIdentifier, id)
	case "DOWN":
		return &httputil.RemoteError{URL: "https://example.org/prediction/DOWN", StatusCode: 503, Attempts: 1}
	case "SLOW":
		return fmt.Errorf("fetching: %w", context.DeadlineExceeded)
	case "GONE":
		return fmt.Errorf("fetching predictions for GONE: %w",
			&httputil.RemoteError{URL: "https://example.org/prediction/GONE", StatusCode: 404, Attempts: 1})
	case "LEFT":
		return fmt.Errorf("fetching: %w", context.Canceled)
	}
	return nil
}

func (s *stubService) FetchPredictions(_ context.Context, id string) ([]types.Prediction, error) {
	if err := s.check(id); err != nil {
		return nil, err
	}
	if id == "P69905" {
		return []types.Prediction{hemoglobin}, nil
	}
	return []types.Prediction{}, nil
}

func (s *stubService) FetchStructure(_ context.Context, id string, format types.StructureFormat) (*types.StructureDocument, error) {
	s.gotFormat = format
	if err := s.check(id); err != nil {
		return nil, err
	}
	if id != "P69905" {
		return nil, nil
	}
	return &types.StructureDocument{Data: "ATOM\nEND\n", Format: format, URL: "https://example.org/x." + string(format), Prediction: hemoglobin}, nil
}

func (s *stubService) ConfidenceSummary(_ context.Context, id string) (*types.ConfidenceSummary, error) {
	if err := s.check(id); err != nil {
		return nil, err
	}
	if id != "P69905" {
		return nil, nil
	}
	return alphafold.Summarize(hemoglobin.Confidence), nil
}

func (s *stubService) BatchFetch(ctx context.Context, ids []string, format types.StructureFormat) []types.BatchResult {
	out := make([]types.BatchResult, 0, len(ids))
	for _, id := range ids {
		r := types.BatchResult{ID: id}
		if preds, err := s.FetchPredictions(ctx, id); err != nil {
			r.Error = err.Error()
		} else {
			r.Predictions = preds
		}
		out = append(out, r)
	}
	s.gotFormat = format
	return out
}

func (s *stubService) ToCanonicalEntity(ctx context.Context, id string) (*types.Entity, error) {
	doc, err := s.FetchStructure(ctx, id, types.FormatPDB)
	if err != nil || doc == nil {
		return nil, err
	}
	return alphafold.NewEntity(doc), nil
}

func (s *stubService) FetchPairwiseError(_ context.Context, id string) ([][]float64, error) {
	if err := s.check(id); err != nil {
		return nil, err
	}
	if id != "P69905" {
		return nil, nil
	}
	return [][]float64{{0, 1}, {1, 0}}, nil
}

func newTestRouter(svc Service, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(svc, opts...).Router()
}

func do(t *testing.T, r http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&stubService{}, WithVersion("1.2.3"))

	rec := do(t, r, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true, "version": "1.2.3"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
}

func TestPredictions(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec := do(t, r, http.MethodGet, "/api/v1/predictions/P69905", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var preds []types.Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preds))
	require.Len(t, preds, 1)
	assert.Equal(t, "AF-P69905-F1", preds[0].EntryID)

	rec = do(t, r, http.MethodGet, "/api/v1/predictions/EMPTY", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestErrorMapping(t *testing.T) {
	r := newTestRouter(&stubService{})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/v1/predictions/BAD!", http.StatusBadRequest, codeInvalidIdentifier},
		{"/api/v1/predictions/DOWN", http.StatusBadGateway, codeRemoteFailed},
		{"/api/v1/summary/SLOW", http.StatusGatewayTimeout, codeTimeout},
		{"/api/v1/predictions/GONE", http.StatusNotFound, codeNotFound},
		{"/api/v1/entities/LEFT", statusClientClosedRequest, codeCanceled},
		{"/api/v1/structures/EMPTY", http.StatusNotFound, codeNotFound},
		{"/api/v1/summary/EMPTY", http.StatusNotFound, codeNotFound},
		{"/api/v1/entities/EMPTY", http.StatusNotFound, codeNotFound},
		{"/api/v1/pae/EMPTY", http.StatusNotFound, codeNotFound},
		{"/api/v1/structures/P69905?format=xyz", http.StatusBadRequest, codeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, r, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestStructure(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)

	rec := do(t, r, http.MethodGet, "/api/v1/structures/P69905?format=mmcif", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.FormatCIF, svc.gotFormat)

	var doc types.StructureDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "ATOM\nEND\n", doc.Data)

	rec = do(t, r, http.MethodGet, "/api/v1/structures/P69905?raw=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.FormatPDB, svc.gotFormat)
	assert.Equal(t, "chemical/x-pdb", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ATOM\nEND\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "AF-P69905-F1.pdb")
}

func TestSummaryEntityAndPAE(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec := do(t, r, http.MethodGet, "/api/v1/summary/P69905", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sum types.ConfidenceSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.InDelta(t, 71.5, sum.Mean, 1e-9)

	rec = do(t, r, http.MethodGet, "/api/v1/entities/P69905", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var e types.Entity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, types.EntityKindProteinStructure, e.Kind)
	assert.NotEmpty(t, e.ID)

	rec = do(t, r, http.MethodGet, "/api/v1/pae/P69905", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id": "P69905", "matrix": [[0, 1], [1, 0]]}`, rec.Body.String())
}

func TestBatch(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)

	rec := do(t, r, http.MethodPost, "/api/v1/batch", `{"ids": ["P69905", "DOWN", "EMPTY"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, []string{"P69905", "DOWN", "EMPTY"},
		[]string{resp.Results[0].ID, resp.Results[1].ID, resp.Results[2].ID})
	assert.NotEmpty(t, resp.Results[1].Error)
	assert.Equal(t, types.StructureFormat(""), svc.gotFormat)

	rec = do(t, r, http.MethodPost, "/api/v1/batch", `{"ids": ["P69905"], "format": "cif"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.FormatCIF, svc.gotFormat)
}

func TestBatch_InvalidRequests(t *testing.T) {
	r := newTestRouter(&stubService{})

	tooMany, _ := json.Marshal(BatchRequest{IDs: make([]string, MaxBatchSize+1)})
	for _, body := range []string{`{not json`, `{"ids": []}`, `{"ids": ["A"], "format": "png"}`, string(tooMany)} {
		rec := do(t, r, http.MethodPost, "/api/v1/batch", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, codeInvalidRequest, decodeError(t, rec).Code)
	}
}

func TestRecovery(t *testing.T) {
	r := newTestRouter(&stubService{panicOn: "P00000"})

	rec := do(t, r, http.MethodGet, "/api/v1/predictions/P00000", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, codeInternal, decodeError(t, rec).Code)
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.NewManager()
	m.ObserveRetry()
	r := newTestRouter(&stubService{}, WithMetricsHandler(m.Handler()))

	rec := do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "foldfetch_client_rate_limited_retries_total 1")
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := newTestRouter(&stubService{}, WithLogger(logger))

	do(t, r, http.MethodGet, "/api/v1/health", "")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "request complete", line["msg"])
	assert.Equal(t, "/api/v1/health", line["path"])
	assert.EqualValues(t, 200, line["status"])
	assert.NotEmpty(t, line["request_id"])
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
