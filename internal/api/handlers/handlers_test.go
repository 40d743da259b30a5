package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/fairlens/backend/internal/analysis"
	"github.com/fairlens/backend/internal/catalog"
	"github.com/fairlens/backend/internal/dataset"
	"github.com/fairlens/backend/internal/report"
	"github.com/fairlens/backend/internal/storage/sqlite"
	"github.com/fairlens/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console", "stdout"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

const sampleCSV = `candidate_id,gender,age,shortlisted
1,M,25,1
2,M,34,1
3,M,45,0
4,M,28,0
5,M,52,0
6,F,31,1
7,F,42,0
8,F,27,0
9,F,39,0
10,F,24,0
`

const balancedCSV = `candidate_id,gender,age,shortlisted
1,M,25,1
2,M,34,0
3,F,31,1
4,F,42,0
`

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlite.NewClient(filepath.Join(dir, "fairlens.db"))
	if err != nil {
		t.Fatalf("sqlite client: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.InitSchema(); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	store, err := dataset.NewStore(filepath.Join(dir, "uploads"), db)
	if err != nil {
		t.Fatalf("dataset store: %v", err)
	}

	orchestrator := analysis.NewOrchestrator(store, catalog.Default(), db, nil, 0)

	datasetHandler := NewDatasetHandler(store, nil)
	analysisHandler := NewAnalysisHandler(orchestrator)
	reportHandler := NewReportHandler(orchestrator, report.NewService(nil), store)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/upload", datasetHandler.UploadDataset)
	api.Get("/datasets", datasetHandler.ListDatasets)
	api.Get("/dataset/:id", datasetHandler.GetDataset)
	api.Delete("/dataset/:id", datasetHandler.DeleteDataset)
	api.Post("/analyze", analysisHandler.AnalyzeDataset)
	api.Post("/compare", analysisHandler.CompareDatasets)
	api.Get("/metrics", analysisHandler.GetMetricDefinitions)
	api.Get("/analyses", analysisHandler.GetAnalysisHistory)
	api.Post("/reports", reportHandler.GenerateReport)

	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return doRequest(t, app, req)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func uploadCSV(t *testing.T, app *fiber.App, filename, content string) *http.Response {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/upload", body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return doRequest(t, app, req)
}

func uploadSample(t *testing.T, app *fiber.App, filename, content string) string {
	t.Helper()
	resp := uploadCSV(t, app, filename, content)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	id, _ := body["dataset_id"].(string)
	if id == "" {
		t.Fatalf("upload returned no dataset_id: %v", body)
	}
	return id
}

func TestUploadDataset(t *testing.T) {
	app := newTestApp(t)

	resp := uploadCSV(t, app, "candidates.csv", sampleCSV)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["filename"] != "candidates.csv" {
		t.Errorf("filename = %v", body["filename"])
	}
	if body["rows"] != float64(10) {
		t.Errorf("rows = %v, want 10", body["rows"])
	}
	if body["has_age_group"] != true {
		t.Errorf("has_age_group = %v, want true", body["has_age_group"])
	}

	names, _ := body["column_names"].([]interface{})
	found := false
	for _, n := range names {
		if n == "age_group" {
			found = true
		}
	}
	if !found {
		t.Errorf("column_names missing derived age_group: %v", names)
	}
}

func TestUploadRejectsNonCSV(t *testing.T) {
	app := newTestApp(t)

	resp := uploadCSV(t, app, "candidates.txt", sampleCSV)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["error"] != "Only CSV files are supported" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestUploadRequiresShortlisted(t *testing.T) {
	app := newTestApp(t)

	resp := uploadCSV(t, app, "bad.csv", "candidate_id,gender\n1,M\n2,F\n")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if !strings.Contains(body["error"].(string), "shortlisted") {
		t.Errorf("error = %v", body["error"])
	}
}

func TestUploadWithoutFile(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/upload", nil)
	resp := doRequest(t, app, req)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetDatasetPreview(t *testing.T) {
	app := newTestApp(t)
	id := uploadSample(t, app, "candidates.csv", sampleCSV)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/dataset/"+id+"?rows=2", nil)
	resp := doRequest(t, app, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["dataset_id"] != id {
		t.Errorf("dataset_id = %v", body["dataset_id"])
	}

	data, _ := body["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("preview rows = %d, want 2", len(data))
	}
	first, _ := data[0].(map[string]interface{})
	if first["gender"] != "M" {
		t.Errorf("first row gender = %v", first["gender"])
	}

	stats, _ := body["statistics"].(map[string]interface{})
	if stats["rows"] != float64(10) {
		t.Errorf("statistics rows = %v", stats["rows"])
	}
}

func TestGetDatasetNotFound(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/dataset/nope", nil)
	resp := doRequest(t, app, req)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteDataset(t *testing.T) {
	app := newTestApp(t)
	id := uploadSample(t, app, "candidates.csv", sampleCSV)

	req := httptest.NewRequest(fiber.MethodDelete, "/api/v1/dataset/"+id, nil)
	resp := doRequest(t, app, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	req = httptest.NewRequest(fiber.MethodGet, "/api/v1/dataset/"+id, nil)
	resp = doRequest(t, app, req)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", resp.StatusCode)
	}
}

func TestListDatasets(t *testing.T) {
	app := newTestApp(t)
	uploadSample(t, app, "first.csv", sampleCSV)
	uploadSample(t, app, "second.csv", balancedCSV)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/datasets", nil)
	resp := doRequest(t, app, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["count"] != float64(2) {
		t.Errorf("count = %v, want 2", body["count"])
	}
}

func TestAnalyzeDataset(t *testing.T) {
	app := newTestApp(t)
	id := uploadSample(t, app, "candidates.csv", sampleCSV)

	resp := postJSON(t, app, "/api/v1/analyze", map[string]string{
		"dataset_id":     id,
		"protected_attr": "gender",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	metrics, _ := body["metrics"].([]interface{})
	if len(metrics) != 13 {
		t.Fatalf("metrics = %d, want 13", len(metrics))
	}

	summary, _ := body["summary"].(map[string]interface{})
	if summary["total_metrics"] != float64(13) {
		t.Errorf("total_metrics = %v", summary["total_metrics"])
	}
	if summary["overall_assessment"] != "Needs Attention" {
		t.Errorf("overall_assessment = %v", summary["overall_assessment"])
	}
}

func TestAnalyzeSingleMetric(t *testing.T) {
	app := newTestApp(t)
	id := uploadSample(t, app, "candidates.csv", sampleCSV)

	resp := postJSON(t, app, "/api/v1/analyze", map[string]string{
		"dataset_id":     id,
		"protected_attr": "gender",
		"metric_name":    "disparate_impact",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	metricsList, _ := body["metrics"].([]interface{})
	if len(metricsList) != 1 {
		t.Fatalf("metrics = %d, want 1", len(metricsList))
	}
	first, _ := metricsList[0].(map[string]interface{})
	if first["metric_name"] != "disparate_impact" {
		t.Errorf("metric_name = %v", first["metric_name"])
	}
}

func TestAnalyzeUnknownMetric(t *testing.T) {
	app := newTestApp(t)
	id := uploadSample(t, app, "candidates.csv", sampleCSV)

	resp := postJSON(t, app, "/api/v1/analyze", map[string]string{
		"dataset_id":     id,
		"protected_attr": "gender",
		"metric_name":    "not_a_metric",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if !strings.Contains(body["error"].(string), "unknown metric") {
		t.Errorf("error = %v", body["error"])
	}
}

func TestAnalyzeValidationError(t *testing.T) {
	app := newTestApp(t)
	id := uploadSample(t, app, "candidates.csv", sampleCSV)

	resp := postJSON(t, app, "/api/v1/analyze", map[string]string{
		"dataset_id":     id,
		"protected_attr": "nonexistent",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if !strings.Contains(body["error"].(string), "not found in dataset") {
		t.Errorf("error = %v", body["error"])
	}
}

func TestAnalyzeDatasetNotFound(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/analyze", map[string]string{
		"dataset_id":     "nope",
		"protected_attr": "gender",
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAnalyzeMissingFields(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/analyze", map[string]string{})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCompareDatasets(t *testing.T) {
	app := newTestApp(t)
	id1 := uploadSample(t, app, "before.csv", sampleCSV)
	id2 := uploadSample(t, app, "after.csv", balancedCSV)

	resp := postJSON(t, app, "/api/v1/compare", map[string]string{
		"dataset_id_1":   id1,
		"dataset_id_2":   id2,
		"protected_attr": "gender",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["dataset_1"] != "before.csv" || body["dataset_2"] != "after.csv" {
		t.Errorf("dataset names = %v / %v", body["dataset_1"], body["dataset_2"])
	}

	rows, _ := body["metrics_comparison"].([]interface{})
	if len(rows) != 13 {
		t.Fatalf("comparison rows = %d, want 13", len(rows))
	}

	summary, _ := body["summary"].(map[string]interface{})
	if summary["total_metrics"] != float64(13) {
		t.Errorf("total_metrics = %v", summary["total_metrics"])
	}
}

func TestMetricDefinitions(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/metrics", nil)
	resp := doRequest(t, app, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	defer resp.Body.Close()
	var defs []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&defs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(defs) != 13 {
		t.Fatalf("definitions = %d, want 13", len(defs))
	}
	if defs[0]["name"] != "demographic_parity" {
		t.Errorf("first definition = %v", defs[0]["name"])
	}
}

func TestAnalysisHistory(t *testing.T) {
	app := newTestApp(t)
	id := uploadSample(t, app, "candidates.csv", sampleCSV)

	resp := postJSON(t, app, "/api/v1/analyze", map[string]string{
		"dataset_id":     id,
		"protected_attr": "gender",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("analyze status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/analyses?dataset_id="+id, nil)
	resp = doRequest(t, app, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("history status = %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestGenerateReport(t *testing.T) {
	app := newTestApp(t)
	id := uploadSample(t, app, "candidates.csv", sampleCSV)

	resp := postJSON(t, app, "/api/v1/reports", map[string]string{
		"dataset_id":     id,
		"protected_attr": "gender",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	defer resp.Body.Close()

	disposition := resp.Header.Get(fiber.HeaderContentDisposition)
	if !strings.Contains(disposition, "fairness_audit_candidates_") {
		t.Errorf("content disposition = %q", disposition)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("body is not a PDF (%d bytes)", len(pdf))
	}
}

func TestGenerateReportNotFound(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/v1/reports", map[string]string{
		"dataset_id":     "nope",
		"protected_attr": "gender",
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStreamErrorMessage(t *testing.T) {
	verr := dataset.NewValidationError("protected attribute %q not found in dataset", "x")
	if got := streamErrorMessage(verr); !strings.Contains(got, "not found in dataset") {
		t.Errorf("validation message = %q", got)
	}
	if got := streamErrorMessage(dataset.ErrNotFound); got != "Dataset not found" {
		t.Errorf("not found message = %q", got)
	}
	if got := streamErrorMessage(errors.New("boom")); got != "Failed to analyze dataset" {
		t.Errorf("generic message = %q", got)
	}
}
