package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
)

func TestClientGetAppendsSessionID(t *testing.T) {
	var gotQuery, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query().Get("sessionId")
		w.Write([]byte(`{"prices":[]}`))
	}))
	defer server.Close()

	body, err := New().Do(context.Background(), port.Poll(server.URL+"/v1/instruments/poll.json", 987))
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotMethod != http.MethodGet || gotQuery != "987" {
		t.Errorf("expected GET with sessionId=987, got %s %q", gotMethod, gotQuery)
	}
	if string(body) != `{"prices":[]}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestClientPostSendsJSON(t *testing.T) {
	var gotBody, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Has("sessionId") {
			t.Errorf("POST must not carry a sessionId")
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"sessionId":5}`))
	}))
	defer server.Close()

	_, err := New().Do(context.Background(), port.Subscribe(server.URL, []byte(`{"prices":["EUR_USD"]}`)))
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotBody != `{"prices":["EUR_USD"]}` || gotType != "application/json" {
		t.Errorf("unexpected request body=%q content-type=%q", gotBody, gotType)
	}
}

func TestClientNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down"))
	}))
	defer server.Close()

	_, err := New().Do(context.Background(), port.Poll(server.URL, 1))
	if !errors.Is(err, port.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var te *port.TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected TransportError 503, got %v", err)
	}
}

func TestClientConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := New(WithTimeout(time.Second)).Do(context.Background(), port.Poll(addr, 1))
	if !errors.Is(err, port.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestClientWithPortOverridesURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	p, _ := strconv.Atoi(u.Port())

	// URL points at port 1; the option must redirect to the live server
	_, err := New(WithPort(p)).Do(context.Background(), port.Poll("http://"+u.Hostname()+":1/poll", 1))
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

func TestClientRejectsBadURL(t *testing.T) {
	_, err := New().Do(context.Background(), port.Poll("/relative/only", 1))
	if !errors.Is(err, port.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}
