package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempRequest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp request: %v", err)
	}
	return path
}

func TestLoadGenerateRequestValidPayload(t *testing.T) {
	path := writeTempRequest(t, `{
		"companyId": "c1",
		"farmacyId": "f1",
		"month": "2025-02",
		"employees": [{"name": "e1", "max_daily_hours": 8, "max_weekly_hours": 40, "max_monthly_hours": 160}],
		"shiftCatalog": [{"name": "T1", "start_minute": 540, "end_minute": 1020, "duration_hours": 8, "weekdays": [1,2,3,4,5]}],
		"coverage": {"default": 1}
	}`)

	req, err := loadGenerateRequest(path)
	if err != nil {
		t.Fatalf("loadGenerateRequest: %v", err)
	}
	if req.Month != "2025-02" {
		t.Errorf("Month = %q, want 2025-02", req.Month)
	}
	if len(req.Employees) != 1 {
		t.Errorf("len(Employees) = %d, want 1", len(req.Employees))
	}
}

func TestLoadGenerateRequestRejectsMissingRequiredFields(t *testing.T) {
	path := writeTempRequest(t, `{"month": "2025-02"}`)

	if _, err := loadGenerateRequest(path); err == nil {
		t.Fatal("expected validation error for missing companyId/farmacyId/employees/shiftCatalog")
	}
}

func TestLoadValidateRequestRejectsMalformedJSON(t *testing.T) {
	path := writeTempRequest(t, `not json`)

	if _, err := loadValidateRequest(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestReadRequestFileMissingPath(t *testing.T) {
	if _, err := readRequestFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error reading a nonexistent file")
	}
}
