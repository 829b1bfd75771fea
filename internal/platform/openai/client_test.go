package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/aet-studio-backend/internal/platform/ai"
	"github.com/yungbote/aet-studio-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, srv *httptest.Server, retries int) *Client {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	c, err := NewClient(log, Config{APIKey: "sk-test", BaseURL: srv.URL, MaxRetries: retries, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	log, _ := logger.New("development")
	if _, err := NewClient(log, Config{}); err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Fatalf("NewClient: want missing key error got=%v", err)
	}
}

func TestGenerateJSONUsesJSONObjectFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("path: got=%q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("auth header: got=%q", got)
		}
		var req responsesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Text.Format["type"] != "json_object" {
			t.Errorf("format: got=%v", req.Text.Format)
		}
		_, _ = w.Write([]byte(`{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"{\"title\":\"Snack\"}"}]}]}`))
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv, 0).GenerateJSON(context.Background(), "make pecs")
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if out != `{"title":"Snack"}` {
		t.Fatalf("GenerateJSON: got=%q", out)
	}
}

func TestGenerateJSONRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"{}"}]}]}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv, 2).GenerateJSON(context.Background(), "x"); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls: want=2 got=%d", got)
	}
}

func TestGenerateJSONUnauthorizedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 3).GenerateJSON(context.Background(), "x")
	if !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("GenerateJSON: want ErrUnavailable got=%v", err)
	}
}

func TestGenerateImageDecodesB64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("pngbytes"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("path: got=%q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"` + payload + `"}]}`))
	}))
	defer srv.Close()

	img, err := newTestClient(t, srv, 0).GenerateImage(context.Background(), "apple")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img.Data) != "pngbytes" || img.MimeType != "image/png" {
		t.Fatalf("GenerateImage: got=%+v", img)
	}
}

func TestGenerateImageEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 0).GenerateImage(context.Background(), "apple")
	if !errors.Is(err, ai.ErrNoImage) {
		t.Fatalf("GenerateImage: want ErrNoImage got=%v", err)
	}
}

func TestShouldAttachOpenAIAuth(t *testing.T) {
	if !shouldAttachOpenAIAuth("https://api.openai.com", "https://files.openai.com/x.png") {
		t.Fatalf("openai host should get auth")
	}
	if shouldAttachOpenAIAuth("https://api.openai.com", "https://blob.core.windows.net/x.png?sig=1") {
		t.Fatalf("foreign host should not get auth")
	}
}
