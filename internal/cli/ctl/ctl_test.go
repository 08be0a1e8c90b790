package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRunAskCommandPrintsSQLAndTable(t *testing.T) {
	var gotMethod, gotPath, gotAPIKey string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("X-API-Key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sql_query":"SELECT * FROM customers WHERE name ILIKE '%arjun%';","results":[{"customer_id":1,"name":"Arjun Mehta","gender":"male","location":null}]}`))
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{
		"--base-url", srv.URL,
		"--api-key", "MY_SUPER_SECRET_API_KEY",
		"ask", "who", "is", "arjun",
	}, Options{Stdout: &stdout, Stderr: &stderr, Timeout: 2 * time.Second})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr=%s", code, stderr.String())
	}
	if gotMethod != http.MethodPost || gotPath != "/query" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if gotAPIKey != "MY_SUPER_SECRET_API_KEY" {
		t.Fatalf("api key = %q", gotAPIKey)
	}
	if gotBody["query"] != "who is arjun" {
		t.Fatalf("body = %#v", gotBody)
	}

	out := stdout.String()
	for _, want := range []string{"SQL: SELECT * FROM customers WHERE name ILIKE '%arjun%';", "customer_id", "Arjun Mehta", "NULL", "(1 rows)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "customer_id") > strings.Index(out, "location") {
		t.Fatalf("columns out of order:\n%s", out)
	}
}

func TestRunAskCommandReportsErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error_code":"DATABASE_UNAVAILABLE","detail":"Database connection not available"}`))
	}))
	defer srv.Close()

	var stderr bytes.Buffer
	code := Run(context.Background(), []string{"--base-url", srv.URL, "ask", "who is arjun"}, Options{Stderr: &stderr})
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stderr.String(), "Database connection not available") {
		t.Fatalf("stderr = %s", stderr.String())
	}
}

func TestRunAskJSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sql_query":"SELECT 1;","results":[]}`))
	}))
	defer srv.Close()

	var stdout bytes.Buffer
	code := Run(context.Background(), []string{"--base-url", srv.URL, "ask", "--json", "anything"}, Options{Stdout: &stdout})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), `"sql_query": "SELECT 1;"`) {
		t.Fatalf("stdout = %s", stdout.String())
	}
}

func TestRunHealthCommand(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	var stdout bytes.Buffer
	code := Run(context.Background(), []string{"--base-url", srv.URL, "health"}, Options{Stdout: &stdout})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if gotPath != "/v1/health" {
		t.Fatalf("path = %q", gotPath)
	}
	if !strings.Contains(stdout.String(), `"status": "ok"`) {
		t.Fatalf("stdout = %s", stdout.String())
	}
}

func TestRunReadyCommandFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error_code":"NOT_READY","detail":"connection refused"}`))
	}))
	defer srv.Close()

	code := Run(context.Background(), []string{"--base-url", srv.URL, "ready"}, Options{})
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
}

func TestRunUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"unknown"},
		{"ask"},
		{"health", "extra"},
	} {
		if code := Run(context.Background(), args, Options{}); code != 2 {
			t.Fatalf("Run(%v) exit code = %d, want 2", args, code)
		}
	}
}
