package config

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"GUIDEKIT_LANGUAGE", "GUIDEKIT_STORE", "GUIDEKIT_DATA_DIR",
		"GUIDEKIT_DB", "GUIDEKIT_PROMPTS_DIR", "GUIDEKIT_LISTEN",
		"GUIDEKIT_MAX_TOKENS", "GUIDEKIT_TEMPERATURE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Language != "en" {
		t.Errorf("Language = %q", cfg.Language)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("GUIDEKIT_LANGUAGE", "zh")
	t.Setenv("GUIDEKIT_STORE", "file")
	t.Setenv("GUIDEKIT_DATA_DIR", "/tmp/guidekit-test")
	t.Setenv("GUIDEKIT_LISTEN", "127.0.0.1:9090")
	t.Setenv("GUIDEKIT_MAX_TOKENS", "4000")
	t.Setenv("GUIDEKIT_TEMPERATURE", "0.3")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Language != "zh" {
		t.Errorf("Language = %q", cfg.Language)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.DataDir != "/tmp/guidekit-test" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.MaxTokens != 4000 {
		t.Errorf("MaxTokens = %d", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.3 {
		t.Errorf("Temperature = %f", cfg.Temperature)
	}
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct{ key, value string }{
		{"GUIDEKIT_STORE", "redis"},
		{"GUIDEKIT_MAX_TOKENS", "-1"},
		{"GUIDEKIT_MAX_TOKENS", "lots"},
		{"GUIDEKIT_TEMPERATURE", "3.5"},
		{"GUIDEKIT_TEMPERATURE", "warm"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
