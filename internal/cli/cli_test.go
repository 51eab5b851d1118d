package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haskel/calburn/internal/config"
	"github.com/haskel/calburn/internal/features"
	"github.com/haskel/calburn/internal/monitor"
	"github.com/haskel/calburn/internal/report"
	"github.com/haskel/calburn/internal/server"
	"github.com/haskel/calburn/internal/storage"
)

func TestGetServerURL(t *testing.T) {
	// Reset to defaults
	host = "localhost"
	port = 8080

	url := GetServerURL()
	expected := "http://localhost:8080"

	if url != expected {
		t.Errorf("expected %s, got %s", expected, url)
	}
}

func TestGetServerURL_CustomHostPort(t *testing.T) {
	host = "192.168.1.100"
	port = 9000

	url := GetServerURL()
	expected := "http://192.168.1.100:9000"

	if url != expected {
		t.Errorf("expected %s, got %s", expected, url)
	}

	// Reset
	host = "localhost"
	port = 8080
}

func TestIsJSON(t *testing.T) {
	jsonOut = false
	if IsJSON() {
		t.Error("expected false")
	}

	jsonOut = true
	if !IsJSON() {
		t.Error("expected true")
	}

	// Reset
	jsonOut = false
}

func TestIsVerbose(t *testing.T) {
	verbose = false
	if IsVerbose() {
		t.Error("expected false")
	}

	verbose = true
	if !IsVerbose() {
		t.Error("expected true")
	}

	// Reset
	verbose = false
}

func TestGetAuth(t *testing.T) {
	user = ""
	password = ""

	u, p := GetAuth()
	if u != "" || p != "" {
		t.Errorf("expected empty auth, got %s:%s", u, p)
	}

	user = "admin"
	password = "secret"

	u, p = GetAuth()
	if u != "admin" || p != "secret" {
		t.Errorf("expected admin:secret, got %s:%s", u, p)
	}

	// Reset
	user = ""
	password = ""
}

func TestGetConfigFile(t *testing.T) {
	cfgFile = ""
	if GetConfigFile() != "" {
		t.Error("expected empty config file")
	}

	cfgFile = "/path/to/config.yaml"
	if GetConfigFile() != "/path/to/config.yaml" {
		t.Errorf("expected /path/to/config.yaml, got %s", GetConfigFile())
	}

	// Reset
	cfgFile = ""
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")

	if Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", Version)
	}

	// Reset
	Version = "0.1.0"
}

func TestNewClient(t *testing.T) {
	host = "localhost"
	port = 8080

	client := NewClient()

	if client == nil {
		t.Fatal("expected client, got nil")
	}

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("expected http://localhost:8080, got %s", client.baseURL)
	}
}

func TestNewClient_WithAuth(t *testing.T) {
	user = "admin"
	password = "secret"

	client := NewClient()

	if client.user != "admin" {
		t.Errorf("expected user admin, got %s", client.user)
	}

	if client.password != "secret" {
		t.Errorf("expected password secret, got %s", client.password)
	}

	// Reset
	user = ""
	password = ""
}

func TestLoadEnv_EnvironmentFallback(t *testing.T) {
	t.Setenv("CALBURN_USER", "alice")
	t.Setenv("CALBURN_PASSWORD", "pw")
	envFile = filepath.Join(t.TempDir(), "missing.env")
	user, password = "", ""
	t.Cleanup(func() {
		envFile = ".env"
		user, password = "", ""
	})

	if err := loadEnv(nil, nil); err != nil {
		t.Fatalf("loadEnv: %v", err)
	}
	if user != "alice" || password != "pw" {
		t.Errorf("expected alice:pw, got %s:%s", user, password)
	}
}

func TestLoadEnv_FlagWins(t *testing.T) {
	t.Setenv("CALBURN_USER", "alice")
	envFile = filepath.Join(t.TempDir(), "missing.env")
	user = "bob"
	t.Cleanup(func() {
		envFile = ".env"
		user = ""
	})

	if err := loadEnv(nil, nil); err != nil {
		t.Fatalf("loadEnv: %v", err)
	}
	if user != "bob" {
		t.Errorf("expected flag value bob, got %s", user)
	}
}

func TestLoadEnv_DotEnvFile(t *testing.T) {
	// Registered so the original value is restored after the test.
	t.Setenv("CALBURN_PASSWORD", "")
	os.Unsetenv("CALBURN_PASSWORD")

	envFile = filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("CALBURN_PASSWORD=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	password = ""
	t.Cleanup(func() {
		envFile = ".env"
		password = ""
	})

	if err := loadEnv(nil, nil); err != nil {
		t.Fatalf("loadEnv: %v", err)
	}
	if password != "from-file" {
		t.Errorf("expected password from dotenv file, got %q", password)
	}
}

func TestApiError(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"json with details", `{"error":"input out of range","details":"age must be between 10 and 100"}`,
			"server returned status 400: input out of range: age must be between 10 and 100"},
		{"json without details", `{"error":"unauthorized"}`, "server returned status 400: unauthorized"},
		{"plain text", "bad gateway\n", "server returned status 400: bad gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apiError(http.StatusBadRequest, []byte(tt.data))
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestClient_Predict(t *testing.T) {
	var got server.PredictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/predict" {
			http.NotFound(w, r)
			return
		}
		if u, p, ok := r.BasicAuth(); !ok || u != "admin" || p != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		a := report.Build(24.22, 190, report.Input{Gender: got.Gender, Age: got.Age})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(server.PredictResponse{Assessment: a, Model: "linear", Lines: a.Lines()})
	}))
	defer srv.Close()

	client := &Client{baseURL: srv.URL, client: srv.Client(), user: "admin", password: "secret"}

	resp, err := client.Predict(features.Defaults())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if got.Gender != "male" || got.Age != 25 || got.DurationMin != 30 {
		t.Errorf("unexpected request body: %+v", got)
	}
	if resp.Model != "linear" {
		t.Errorf("expected model linear, got %s", resp.Model)
	}
	if resp.PredictedKcal != 190 {
		t.Errorf("expected 190 kcal, got %v", resp.PredictedKcal)
	}
	if len(resp.Lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(resp.Lines))
	}

	a, err := client.Assess(features.Defaults())
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if a.Category != resp.Category {
		t.Errorf("expected category %s, got %s", resp.Category, a.Category)
	}
}

func TestClient_PredictError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()

	client := &Client{baseURL: srv.URL, client: srv.Client()}

	_, err := client.Predict(features.Defaults())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "unauthorized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := &Client{baseURL: srv.URL, client: srv.Client()}
	if err := client.Health(); err != nil {
		t.Errorf("expected healthy server, got %v", err)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calburn.yaml")

	if err := writeDefaultConfig(path, false); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Server.Port != config.Default().Server.Port {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}

	if err := writeDefaultConfig(path, false); err == nil {
		t.Error("expected error when file exists")
	}
	if err := writeDefaultConfig(path, true); err != nil {
		t.Errorf("expected --force to overwrite, got %v", err)
	}
}

func TestWriteChart(t *testing.T) {
	cfg := config.Default()
	a := report.Build(22, 300, report.Input{})
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "burn.png")
	if err := writeChart(pngPath, a, cfg); err != nil {
		t.Fatalf("png: %v", err)
	}
	data, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}

	svgPath := filepath.Join(dir, "burn.SVG")
	if err := writeChart(svgPath, a, cfg); err != nil {
		t.Fatalf("svg: %v", err)
	}

	if err := writeChart(filepath.Join(dir, "burn.gif"), a, cfg); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestPrintStatus(t *testing.T) {
	updated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := &server.StatusResponse{
		Name:      "calburn",
		Version:   "0.1.0",
		UptimeSec: 42,
		Model: server.ModelStatus{
			Type:         "ridge",
			IncludesBMI:  true,
			InputColumns: features.BaseSchema.WithBMI().InputColumns(),
			OutputWidth:  9,
		},
		Artifacts: []storage.ArtifactInfo{
			{Name: "preprocessor", Exists: true, Path: "artifacts/preprocessor.json", Size: 512, UpdatedAt: updated},
			{Name: "model", Path: "artifacts/model.json"},
		},
		Runtime: &monitor.Snapshot{
			Process: monitor.ProcessState{PID: 7, Goroutines: 12},
			CPU:     monitor.CPUState{UsagePercent: 12.5, Cores: 4},
			Storage: monitor.StorageState{
				"artifacts": {UsedBytes: 1 << 30, TotalBytes: 4 << 30},
			},
		},
	}

	var buf bytes.Buffer
	printStatus(&buf, s)
	out := buf.String()

	for _, want := range []string{
		"=== calburn 0.1.0 ===",
		"Type:    ridge",
		"BMI",
		"preprocessor: artifacts/preprocessor.json, 512 bytes, updated 2026-01-02 03:04:05",
		"model: missing (artifacts/model.json)",
		"Goroutines: 12",
		"12.5% (4 cores)",
		"Disk artifacts: 3.0 GB free / 4.0 GB total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
