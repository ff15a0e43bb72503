package catalogfeed_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hotel_booking/internal/adapters/catalogfeed"
	"hotel_booking/internal/domain"
)

var sample = domain.CatalogSnapshot{
	States: []string{"Goa"},
	Cities: []domain.SeedCity{{Name: "Panaji", State: "Goa"}},
	Hotels: []domain.SeedHotel{{Name: "Taj Exotica Goa", City: "Panaji", State: "Goa", Price: 15000, Rating: 5}},
}

func TestClient_GetSnapshot_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_ = json.NewEncoder(w).Encode(sample)
		}
	}))
	defer ts.Close()

	cl, err := catalogfeed.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.GetSnapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Hotels) != 1 || got.Hotels[0].Price != 15000 || got.Cities[0].State != "Goa" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetSnapshot_FallsBackToLegacyPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed/snapshot", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sample)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	cl, err := catalogfeed.New(ts.URL+"/feed/", "", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, err := cl.GetSnapshot(context.Background())
	if err != nil || len(got.States) != 1 {
		t.Fatalf("GetSnapshot: %+v %v", got, err)
	}
}

func TestClient_GetSnapshot_Errors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"404", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }, catalogfeed.ErrNotFound},
		{"401", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) }, catalogfeed.ErrUnauthorized},
		{"empty", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{}`)) }, catalogfeed.ErrEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()
			cl, err := catalogfeed.New(ts.URL, "k", 100)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if _, err := cl.GetSnapshot(ctx); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := catalogfeed.New(" ", "k", 1); err == nil {
		t.Fatal("expected error for empty base")
	}
}
