// Package fakeapi is an in-memory implementation of the consumption offsets
// API used to exercise the scenario in tests.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/wallarm/gotestoffsets/internal/offset"
	"github.com/wallarm/gotestoffsets/internal/scanner/clients"
)

// MaxNameLength is the longest offset name the fake accepts.
const MaxNameLength = 255

type API struct {
	mu sync.Mutex

	order   []string
	offsets map[string]offset.Offset

	delay        time.Duration
	listBody     []byte
	ignoreUpdate bool
	duplicate    bool
	anyUnit      bool
	dropListing  bool

	addCalls  int
	listCalls int
}

func New() *API {
	return &API{offsets: make(map[string]offset.Offset)}
}

// Start serves the API on a local test server.
func (a *API) Start() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(clients.ListOffsetsPath, a.handleList)
	mux.HandleFunc(clients.AddOffsetPath, a.handleAdd)

	return httptest.NewServer(mux)
}

// SetDelay delays every response by d.
func (a *API) SetDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delay = d
}

// SetListBody makes the listing return body verbatim.
func (a *API) SetListBody(body []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listBody = body
}

// IgnoreUpdates accepts updates of existing names without applying them.
func (a *API) IgnoreUpdates() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ignoreUpdate = true
}

// DuplicateOnUpdate stores updates as new entries instead of replacing.
func (a *API) DuplicateOnUpdate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.duplicate = true
}

// AcceptAnyUnit stores offsets whatever their unit code is.
func (a *API) AcceptAnyUnit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.anyUnit = true
}

// DropListing closes the connection of every listing request without
// answering.
func (a *API) DropListing() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dropListing = true
}

// Offsets returns the stored offsets in creation order.
func (a *API) Offsets() offset.Listing {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listing()
}

// Calls returns the number of add and list requests served.
func (a *API) Calls() (add, list int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addCalls, a.listCalls
}

func (a *API) listing() offset.Listing {
	l := make(offset.Listing, 0, len(a.order))
	for _, key := range a.order {
		l = append(l, a.offsets[key])
	}
	return l
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	a.mu.Lock()
	a.listCalls++
	delay := a.delay
	drop := a.dropListing
	body := a.listBody
	if body == nil {
		body, _ = json.Marshal(a.listing())
	}
	a.mu.Unlock()

	time.Sleep(delay)

	if drop {
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				conn.Close()
				return
			}
		}
		panic(http.ErrAbortHandler)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (a *API) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	a.mu.Lock()
	a.addCalls++
	delay := a.delay
	anyUnit := a.anyUnit
	a.mu.Unlock()

	time.Sleep(delay)

	var o offset.Offset
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if o.Name == "" || len(o.Name) > MaxNameLength || (!anyUnit && !o.Unit.IsValid()) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := o.Name
	if _, exists := a.offsets[key]; exists {
		switch {
		case a.ignoreUpdate:
		case a.duplicate:
			key = fmt.Sprintf("%s#%d", o.Name, len(a.order))
			a.order = append(a.order, key)
			a.offsets[key] = o
		default:
			a.offsets[key] = o
		}
	} else {
		a.order = append(a.order, key)
		a.offsets[key] = o
	}

	w.WriteHeader(http.StatusNoContent)
}
