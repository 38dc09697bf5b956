package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.WebServer.Port != "6867" {
		t.Errorf("WebServer.Port = %q, want %q", cfg.WebServer.Port, "6867")
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, "file")
	}
	if cfg.Storage.URLsFile != "urls.json" {
		t.Errorf("Storage.URLsFile = %q, want %q", cfg.Storage.URLsFile, "urls.json")
	}
	if cfg.Storage.UsersFile != "users.json" {
		t.Errorf("Storage.UsersFile = %q, want %q", cfg.Storage.UsersFile, "users.json")
	}
	if cfg.Session.SecretKey == "" {
		t.Error("Session.SecretKey default is empty")
	}
	if cfg.SMTP.Enabled {
		t.Error("SMTP.Enabled default = true, want false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SHORTENER_WEBSERVER_PORT", "9999")
	t.Setenv("SHORTENER_STORAGE_BACKEND", "redis")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.WebServer.Port != "9999" {
		t.Errorf("WebServer.Port = %q, want env override %q", cfg.WebServer.Port, "9999")
	}
	if cfg.Storage.Backend != "redis" {
		t.Errorf("Storage.Backend = %q, want env override %q", cfg.Storage.Backend, "redis")
	}
}
