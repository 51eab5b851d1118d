package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/haskel/calburn/internal/config"
	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/monitor"
	"github.com/haskel/calburn/internal/predictor"
	"github.com/haskel/calburn/internal/storage"
)

func TestServer_Integration(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 0 // Let OS assign port

	// Round-trip the artifacts through disk, as serve does
	store := storage.NewArtifactStore(storage.Paths{Dir: t.TempDir()}, testLogger())
	pre, m := fitArtifacts(t, features.BaseSchema.WithBMI())
	if err := store.SavePreprocessor(pre); err != nil {
		t.Fatalf("SavePreprocessor: %v", err)
	}
	if err := store.SaveModel(m); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	loadedPre, err := store.LoadPreprocessor()
	if err != nil {
		t.Fatalf("LoadPreprocessor: %v", err)
	}
	loadedModel, err := store.LoadModel()
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	pred, err := predictor.New(loadedPre, loadedModel)
	if err != nil {
		t.Fatalf("predictor.New: %v", err)
	}

	agg := monitor.NewAggregator(monitor.Defaults([]string{store.Dir()}, testLogger()), 100*time.Millisecond, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agg.Start(ctx)
	defer agg.Stop()

	srv := New(cfg, pred, store, agg, testLogger(), "0.1.0")

	// Create test server
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	t.Run("POST /api/predict", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/predict", "application/json", strings.NewReader(defaultRequest))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}

		var body PredictResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if d := body.PredictedKcal - 190; d > 1e-6 || d < -1e-6 {
			t.Errorf("expected 190 kcal, got %f", body.PredictedKcal)
		}
	})

	t.Run("GET /status", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/status")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var status StatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}

		if !status.Model.IncludesBMI || len(status.Model.InputColumns) != 8 {
			t.Errorf("expected BMI schema, got %+v", status.Model)
		}
		for _, a := range status.Artifacts {
			if !a.Exists || a.Size == 0 {
				t.Errorf("expected artifact %s on disk", a.Name)
			}
		}
		if status.Runtime == nil || status.Runtime.Memory.TotalBytes == 0 {
			t.Error("expected runtime memory stats")
		}
	})

	t.Run("GET /unknown", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/unknown")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", resp.StatusCode)
		}
	})
}

func TestServer_StartShutdown(t *testing.T) {
	s := testServer(t, func(c *config.Config) {
		c.Server.Host = "127.0.0.1"
		c.Server.Port = 0
	})

	if s.Addr() != "127.0.0.1:0" {
		t.Errorf("unexpected addr %s", s.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
