package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_JSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/status":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"server":"running"}`))
		case r.Method == "POST" && r.URL.Path == "/echo":
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			io.Copy(w, r.Body)
		case r.Method == "DELETE" && r.URL.Path == "/api/documents/abc":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"document not found"}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		var resp struct {
			Server string `json:"server"`
		}
		if err := client.Get(ctx, "/status", &resp); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if resp.Server != "running" {
			t.Errorf("Server = %q, want running", resp.Server)
		}
	})

	t.Run("post", func(t *testing.T) {
		var resp map[string]string
		if err := client.Post(ctx, "/echo", map[string]string{"message": "hi"}, &resp); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
		if resp["message"] != "hi" {
			t.Errorf("echo = %v", resp)
		}
	})

	t.Run("delete with empty body", func(t *testing.T) {
		if err := client.Delete(ctx, "/api/documents/abc"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
	})

	t.Run("server error message", func(t *testing.T) {
		err := client.Get(ctx, "/missing", nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if err.Error() != "server error (404): document not found" {
			t.Errorf("error = %q", err.Error())
		}
	})
}

func TestClient_GetRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "markdown" {
			http.Error(w, "bad format", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte("# Title"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	data, ct, err := client.GetRaw(context.Background(), "/md?format=markdown")
	if err != nil {
		t.Fatalf("GetRaw() error = %v", err)
	}
	if string(data) != "# Title" {
		t.Errorf("body = %q", data)
	}
	if !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("content type = %q", ct)
	}

	_, _, err = client.GetRaw(context.Background(), "/md")
	if err == nil || !strings.Contains(err.Error(), "server error (400): bad format") {
		t.Errorf("error = %v, want plain-text server error", err)
	}
}

func TestClient_PostMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		json.NewEncoder(w).Encode(map[string]string{
			"name":       header.Filename,
			"size":       strconv.Itoa(len(data)),
			"type":       header.Header.Get("Content-Type"),
			"marginalia": r.FormValue("include_marginalia"),
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	var resp map[string]string
	part := FilePart{Field: "file", FileName: "scan.png", ContentType: "image/png", Data: []byte("12345")}
	err := client.PostMultipart(context.Background(), "/api/documents", part, map[string]string{"include_marginalia": "true"}, &resp)
	if err != nil {
		t.Fatalf("PostMultipart() error = %v", err)
	}

	want := map[string]string{"name": "scan.png", "size": "5", "type": "image/png", "marginalia": "true"}
	for k, v := range want {
		if resp[k] != v {
			t.Errorf("%s = %q, want %q", k, resp[k], v)
		}
	}
}

func TestClient_WaitReady(t *testing.T) {
	t.Run("succeeds after failures", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		if err := client.WaitReady(context.Background(), 5, 10*time.Millisecond); err != nil {
			t.Fatalf("WaitReady() error = %v", err)
		}
		if got := calls.Load(); got != 3 {
			t.Errorf("calls = %d, want 3", got)
		}
	})

	t.Run("gives up", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		err := client.WaitReady(context.Background(), 2, time.Millisecond)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "503") {
			t.Errorf("error = %v, want last server error", err)
		}
	})
}

func TestOutputToFile(t *testing.T) {
	dir := t.TempDir()
	data := map[string]any{"id": "abc", "pages": 2}

	jsonPath := filepath.Join(dir, "out.json")
	if err := OutputToFile(jsonPath, data); err != nil {
		t.Fatalf("OutputToFile(json) error = %v", err)
	}
	raw, _ := os.ReadFile(jsonPath)
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Errorf("json file not valid JSON: %v", err)
	}

	yamlPath := filepath.Join(dir, "out.yaml")
	if err := OutputToFile(yamlPath, data); err != nil {
		t.Fatalf("OutputToFile(yaml) error = %v", err)
	}
	raw, _ = os.ReadFile(yamlPath)
	if !strings.Contains(string(raw), "id: abc") {
		t.Errorf("yaml = %q", raw)
	}
}
