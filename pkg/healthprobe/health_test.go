package healthprobe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew(t *testing.T) {
	hc := New()

	if hc == nil {
		t.Fatal("New() returned nil")
	}
	if hc.ready.Load() {
		t.Error("checker should not be ready by default")
	}
}

func TestHealthAlwaysOK(t *testing.T) {
	hc := New()
	handler := hc.Health()

	for _, ready := range []bool{false, true} {
		hc.SetReady(ready)

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		if w.Code != http.StatusOK {
			t.Errorf("health status = %d, want %d (ready=%v)", w.Code, http.StatusOK, ready)
		}

		var resp HealthResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode health response: %v", err)
		}
		if resp.Status != "healthy" {
			t.Errorf("status = %q, want healthy", resp.Status)
		}
		if resp.Uptime == "" {
			t.Error("uptime is empty")
		}
	}
}

func TestReadyLifecycle(t *testing.T) {
	hc := New()
	handler := hc.Ready()

	probe := func() (int, HealthResponse) {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		var resp HealthResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode ready response: %v", err)
		}
		return w.Code, resp
	}

	// Not ready until startup completes.
	code, resp := probe()
	if code != http.StatusServiceUnavailable {
		t.Errorf("initial ready status = %d, want %d", code, http.StatusServiceUnavailable)
	}
	if resp.Status != "not_ready" || resp.Message == "" {
		t.Errorf("unexpected not-ready body: %+v", resp)
	}

	hc.SetReady(true)
	code, resp = probe()
	if code != http.StatusOK {
		t.Errorf("ready status = %d, want %d", code, http.StatusOK)
	}
	if resp.Status != "ready" || resp.Uptime == "" {
		t.Errorf("unexpected ready body: %+v", resp)
	}

	// Shutdown drains by flipping readiness back off.
	hc.SetReady(false)
	code, _ = probe()
	if code != http.StatusServiceUnavailable {
		t.Errorf("drained ready status = %d, want %d", code, http.StatusServiceUnavailable)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hc := New()
	handler := hc.Ready()

	done := make(chan bool)

	go func() {
		for i := 0; i < 100; i++ {
			hc.SetReady(i%2 == 0)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		}
		done <- true
	}()

	<-done
	<-done
}
