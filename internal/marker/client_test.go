package marker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestProcess_SubmitAndPoll(t *testing.T) {
	var polls atomic.Int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/marker":
			if r.Header.Get("X-Api-Key") != "key" {
				t.Errorf("missing api key header")
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("bad multipart form: %v", err)
			}
			if got := r.FormValue("output_format"); got != "json" {
				t.Errorf("expected output_format=json, got %q", got)
			}
			if got := r.FormValue("paginate"); got != "true" {
				t.Errorf("expected paginate=true, got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"success":           true,
				"request_id":        "r1",
				"request_check_url": srv.URL + "/check/r1",
			})
		case "/check/r1":
			if polls.Add(1) < 2 {
				json.NewEncoder(w).Encode(map[string]any{"status": "processing"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"status":  "complete",
				"success": true,
				"json":    map[string]any{"children": []any{}},
				"images":  map[string]string{},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/marker", "key", time.Millisecond, 10)
	res, err := c.Process(context.Background(), "doc.pdf", []byte("%PDF-1.4"), DefaultSubmitOptions())
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !res.Success {
		t.Error("expected success result")
	}
	if len(res.Blocks) == 0 {
		t.Error("expected raw blocks payload")
	}
	if polls.Load() != 2 {
		t.Errorf("expected 2 polls, got %d", polls.Load())
	}
}

func TestSubmit_RejectedIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "bad pdf"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", time.Millisecond, 3)
	if _, err := c.Submit(context.Background(), "doc.pdf", nil, DefaultSubmitOptions()); err == nil {
		t.Fatal("expected error for rejected submit")
	}
}

func TestSubmit_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", time.Millisecond, 3)
	_, err := c.Submit(context.Background(), "doc.pdf", nil, DefaultSubmitOptions())
	var re *RetryableError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetryableError, got %v", err)
	}
	if re.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", re.StatusCode)
	}
}

func TestPoll_TimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"processing"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", time.Millisecond, 3)
	if _, err := c.Poll(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestPoll_ProcessingFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"complete","success":false,"error":"ocr crashed"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", time.Millisecond, 3)
	_, err := c.Poll(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected processing failure error")
	}
}

func TestPoll_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"processing"}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, "key", time.Hour, 3)
	if _, err := c.Poll(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
