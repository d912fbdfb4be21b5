package gohttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wallarm/gotestoffsets/internal/config"
	"github.com/wallarm/gotestoffsets/internal/fakeapi"
	"github.com/wallarm/gotestoffsets/internal/offset"
	"github.com/wallarm/gotestoffsets/internal/scanner/clients"
)

func newTestClient(t *testing.T, url string, timeout time.Duration) *Client {
	t.Helper()

	c, err := NewClient(&config.Config{
		URL:            url,
		RequestTimeout: timeout,
		AddHeader:      "X-Test: gotestoffsets",
	})
	if err != nil {
		t.Fatalf("couldn't create client: %v", err)
	}

	return c
}

func TestAddAndListOffsets(t *testing.T) {
	api := fakeapi.New()
	srv := api.Start()
	defer srv.Close()

	c := newTestClient(t, srv.URL, 5*time.Second)
	ctx := context.Background()

	resp, err := c.AddOffset(ctx, &offset.Offset{Name: "First Amp Offset Positive", Value: 4, Unit: offset.Amps})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GetStatusCode() != http.StatusNoContent {
		t.Errorf("got status %d, want %d", resp.GetStatusCode(), http.StatusNoContent)
	}
	if resp.GetReason() != "No Content" {
		t.Errorf("got reason %q", resp.GetReason())
	}
	if resp.GetElapsed() <= 0 {
		t.Errorf("elapsed time must be positive")
	}

	resp, err = c.ListOffsets(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GetStatusCode() != http.StatusOK {
		t.Errorf("got status %d, want %d", resp.GetStatusCode(), http.StatusOK)
	}

	l, err := offset.ParseListing(resp.GetContent())
	if err != nil {
		t.Fatalf("couldn't parse listing: %v", err)
	}
	if !l.Contains(offset.Offset{Name: "First Amp Offset Positive", Value: 4, Unit: offset.Amps}) {
		t.Errorf("listing doesn't contain created offset: %v", l)
	}
}

func TestAddOffsetWithoutBody(t *testing.T) {
	api := fakeapi.New()
	srv := api.Start()
	defer srv.Close()

	c := newTestClient(t, srv.URL, 5*time.Second)

	resp, err := c.AddOffset(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.GetStatusCode() != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", resp.GetStatusCode(), http.StatusBadRequest)
	}
}

func TestHeadersAreSent(t *testing.T) {
	var got string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Test")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/", 5*time.Second)

	if _, err := c.ListOffsets(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "gotestoffsets" {
		t.Errorf("custom header was not sent, got %q", got)
	}
}

func TestTimeoutIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 50*time.Millisecond)

	resp, err := c.ListOffsets(context.Background())
	if err == nil {
		t.Fatalf("expected timeout error, got response %v", resp)
	}
}

func TestConnectionRefusedIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url, time.Second)

	_, err := c.AddOffset(context.Background(), &offset.Offset{Name: "x", Value: 1, Unit: offset.Watts})
	if err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestPaths(t *testing.T) {
	var paths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Second)
	c.ListOffsets(context.Background())
	c.AddOffset(context.Background(), nil)

	want := []string{"GET " + clients.ListOffsetsPath, "POST " + clients.AddOffsetPath}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("got paths %v, want %v", paths, want)
	}
}
