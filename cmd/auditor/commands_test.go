package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newCMS(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/cases", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "c1", "client_name": "Ana Ruiz", "status": "treatment", "created_at": "2026-06-01"}]`))
	})
	mux.HandleFunc("/cases/c1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "c1", "client_name": "Ana Ruiz", "status": "treatment", "created_at": "2026-06-01"}`))
	})
	mux.HandleFunc("/cases/c1/documents", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "d1", "name": "Medical Records - Dr Lee.pdf"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProvidersCommand(t *testing.T) {
	out, err := execute(t, "providers")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	for _, id := range []string{"casepeer", "clio", "filevine", "custom"} {
		if !strings.Contains(out, id) {
			t.Fatalf("expected %s in output:\n%s", id, out)
		}
	}
}

func TestCasesAndAuditCommands(t *testing.T) {
	srv := newCMS(t)
	conn := []string{"--provider", "custom", "--api-url", srv.URL, "--api-key", "k"}

	out, err := execute(t, append([]string{"cases"}, conn...)...)
	if err != nil {
		t.Fatalf("cases: %v", err)
	}
	if !strings.Contains(out, "c1") || !strings.Contains(out, "treatment") {
		t.Fatalf("unexpected cases output:\n%s", out)
	}

	out, err = execute(t, append([]string{"audit", "c1"}, conn...)...)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(out, `"caseId": "c1"`) || !strings.Contains(out, `"recommendations"`) {
		t.Fatalf("unexpected audit output:\n%s", out)
	}

	if _, err := execute(t, append([]string{"audit", "ghost"}, conn...)...); err == nil {
		t.Fatalf("expected error for unknown case")
	}
}

func TestConnectionCommandFailsOnMissingKey(t *testing.T) {
	out, err := execute(t, "test-connection", "--provider", "custom", "--api-url", "http://127.0.0.1:1", "--api-key", "")
	if err == nil {
		t.Fatalf("expected failure, got output:\n%s", out)
	}
	if !strings.Contains(out, `"success": false`) {
		t.Fatalf("expected failed result:\n%s", out)
	}
}

func TestClassifyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retainer.txt")
	if err := os.WriteFile(path, []byte("signed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := execute(t, "classify", path)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(out, `"fee_agreement"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
