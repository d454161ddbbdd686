package cfg

import (
	"flag"
	"math"
	"strings"
	"testing"
)

// validBase returns a Config with all required fields set to valid values.
func validBase() Config {
	return Config{
		DrainSeconds:          60,
		ShutdownBudgetSeconds: 90,
		APIPort:               8080,
		ModelPath:             "models/triage.model",
		ConfidenceThreshold:   0.4,
	}
}

func TestRegisterFlags_Defaults(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse empty args: %v", err)
	}

	if c.DrainSeconds != 60 {
		t.Errorf("DrainSeconds = %d, want 60", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 90 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 90", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", c.APIPort)
	}
	if c.ModelPath != "models/triage.model" {
		t.Errorf("ModelPath = %q, want %q", c.ModelPath, "models/triage.model")
	}
	if c.ConfidenceThreshold != 0.4 {
		t.Errorf("ConfidenceThreshold = %g, want 0.4", c.ConfidenceThreshold)
	}
	if c.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty (in-memory default)", c.DatabaseURL)
	}

	// Defaults must pass validation out of the box.
	if err := c.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestRegisterFlags_Override(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	args := []string{
		"-drain-seconds", "30",
		"-shutdown-budget-seconds", "120",
		"-http-port", "9090",
		"-database-url", "postgres://sift:pw@db/sift",
		"-model-path", "/var/lib/sift/triage.model",
		"-confidence-threshold", "0.6",
		"-api-token", "tok-123",
		"-slack-webhook-url", "https://hooks.slack.example/T000/B000",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse args: %v", err)
	}

	if c.DrainSeconds != 30 {
		t.Errorf("DrainSeconds = %d, want 30", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 120 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 120", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", c.APIPort)
	}
	if c.DatabaseURL != "postgres://sift:pw@db/sift" {
		t.Errorf("DatabaseURL = %q", c.DatabaseURL)
	}
	if c.ModelPath != "/var/lib/sift/triage.model" {
		t.Errorf("ModelPath = %q", c.ModelPath)
	}
	if c.ConfidenceThreshold != 0.6 {
		t.Errorf("ConfidenceThreshold = %g, want 0.6", c.ConfidenceThreshold)
	}
	if c.APIToken != "tok-123" {
		t.Errorf("APIToken = %q, want tok-123", c.APIToken)
	}
	if c.SlackWebhookURL != "https://hooks.slack.example/T000/B000" {
		t.Errorf("SlackWebhookURL = %q", c.SlackWebhookURL)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		errSubstr []string // substrings that must appear in error message
	}{
		{
			name:    "defaults are valid",
			cfg:     validBase(),
			wantErr: false,
		},
		{
			name: "minimum valid values",
			cfg: Config{
				DrainSeconds: 1, ShutdownBudgetSeconds: 2, APIPort: 1,
				ModelPath: "m", ConfidenceThreshold: 0.01,
			},
			wantErr: false,
		},
		{
			name: "maximum valid values",
			cfg: Config{
				DrainSeconds: 299, ShutdownBudgetSeconds: 300, APIPort: 65535,
				ModelPath: "m", ConfidenceThreshold: 0.99,
			},
			wantErr: false,
		},
		// DrainSeconds boundaries
		{
			name:      "drain zero",
			cfg:       Config{DrainSeconds: 0, ShutdownBudgetSeconds: 90, APIPort: 8080, ModelPath: "m", ConfidenceThreshold: 0.4},
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS"},
		},
		{
			name:      "drain above max",
			cfg:       Config{DrainSeconds: 301, ShutdownBudgetSeconds: 302, APIPort: 8080, ModelPath: "m", ConfidenceThreshold: 0.4},
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS"},
		},
		// ShutdownBudgetSeconds boundaries
		{
			name:      "budget zero",
			cfg:       Config{DrainSeconds: 60, ShutdownBudgetSeconds: 0, APIPort: 8080, ModelPath: "m", ConfidenceThreshold: 0.4},
			wantErr:   true,
			errSubstr: []string{"SHUTDOWN_BUDGET_SECONDS"},
		},
		// Cross-field: budget vs drain
		{
			name:      "budget equals drain",
			cfg:       Config{DrainSeconds: 60, ShutdownBudgetSeconds: 60, APIPort: 8080, ModelPath: "m", ConfidenceThreshold: 0.4},
			wantErr:   true,
			errSubstr: []string{"must be greater than"},
		},
		{
			name:      "budget less than drain",
			cfg:       Config{DrainSeconds: 60, ShutdownBudgetSeconds: 30, APIPort: 8080, ModelPath: "m", ConfidenceThreshold: 0.4},
			wantErr:   true,
			errSubstr: []string{"must be greater than"},
		},
		// APIPort boundaries
		{
			name:      "port zero",
			cfg:       Config{DrainSeconds: 60, ShutdownBudgetSeconds: 90, APIPort: 0, ModelPath: "m", ConfidenceThreshold: 0.4},
			wantErr:   true,
			errSubstr: []string{"HTTP_PORT"},
		},
		{
			name:      "port above max",
			cfg:       Config{DrainSeconds: 60, ShutdownBudgetSeconds: 90, APIPort: 65536, ModelPath: "m", ConfidenceThreshold: 0.4},
			wantErr:   true,
			errSubstr: []string{"HTTP_PORT"},
		},
		// ModelPath
		{
			name:      "empty model path",
			cfg:       Config{DrainSeconds: 60, ShutdownBudgetSeconds: 90, APIPort: 8080, ModelPath: "", ConfidenceThreshold: 0.4},
			wantErr:   true,
			errSubstr: []string{"MODEL_PATH"},
		},
		// ConfidenceThreshold boundaries, both endpoints excluded
		{
			name:      "threshold zero",
			cfg:       Config{DrainSeconds: 60, ShutdownBudgetSeconds: 90, APIPort: 8080, ModelPath: "m", ConfidenceThreshold: 0},
			wantErr:   true,
			errSubstr: []string{"CONFIDENCE_THRESHOLD"},
		},
		{
			name:      "threshold one",
			cfg:       Config{DrainSeconds: 60, ShutdownBudgetSeconds: 90, APIPort: 8080, ModelPath: "m", ConfidenceThreshold: 1},
			wantErr:   true,
			errSubstr: []string{"CONFIDENCE_THRESHOLD"},
		},
		{
			name:      "threshold negative",
			cfg:       Config{DrainSeconds: 60, ShutdownBudgetSeconds: 90, APIPort: 8080, ModelPath: "m", ConfidenceThreshold: -0.1},
			wantErr:   true,
			errSubstr: []string{"CONFIDENCE_THRESHOLD"},
		},
		// Error accumulation: all fields invalid
		{
			name:      "all fields invalid",
			cfg:       Config{DrainSeconds: 0, ShutdownBudgetSeconds: 0, APIPort: 0},
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS", "SHUTDOWN_BUDGET_SECONDS", "HTTP_PORT", "MODEL_PATH", "CONFIDENCE_THRESHOLD"},
		},
		// Extreme values
		{
			name:      "extreme negative values",
			cfg:       Config{DrainSeconds: math.MinInt32, ShutdownBudgetSeconds: math.MinInt32, APIPort: math.MinInt32},
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS", "SHUTDOWN_BUDGET_SECONDS", "HTTP_PORT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				errMsg := err.Error()
				for _, sub := range tt.errSubstr {
					if !strings.Contains(errMsg, sub) {
						t.Errorf("error %q does not contain %q", errMsg, sub)
					}
				}
			}
		})
	}
}

func FuzzValidate(f *testing.F) {
	// Seeds: defaults, boundaries, extremes
	seeds := []struct {
		drain, budget, port int
		modelPath           string
		threshold           float64
	}{
		{60, 90, 8080, "models/triage.model", 0.4},
		{1, 2, 1, "m", 0.01},
		{299, 300, 65535, "m", 0.99},
		{0, 0, 0, "", 0},
		{-1, -1, -1, "", -1},
		{300, 300, 65535, "m", 0.5},
		{301, 302, 65536, "", 1},
		{150, 100, 8080, "m", 0.5},
		{math.MinInt32, math.MinInt32, math.MinInt32, "", math.Inf(-1)},
		{math.MaxInt32, math.MaxInt32, math.MaxInt32, "", math.Inf(1)},
	}
	for _, s := range seeds {
		f.Add(s.drain, s.budget, s.port, s.modelPath, s.threshold)
	}

	f.Fuzz(func(t *testing.T, drain, budget, port int, modelPath string, threshold float64) {
		c := Config{
			DrainSeconds:          drain,
			ShutdownBudgetSeconds: budget,
			APIPort:               port,
			ModelPath:             modelPath,
			ConfidenceThreshold:   threshold,
		}
		err := c.Validate()

		drainOK := drain >= 1 && drain <= 300
		budgetOK := budget >= 1 && budget <= 300
		portOK := port >= 1 && port <= 65535
		crossOK := budget > drain
		modelOK := modelPath != ""
		thresholdOK := threshold > 0 && threshold < 1

		allValid := drainOK && budgetOK && portOK && crossOK && modelOK && thresholdOK

		if allValid && err != nil {
			t.Errorf("expected no error for valid config %+v, got: %v", c, err)
		}
		if !allValid && err == nil {
			t.Errorf("expected error for invalid config %+v, got nil", c)
		}
	})
}
