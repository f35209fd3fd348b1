package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `api_key: abc123
affiliate_id: extest
customer:
  first_name: Ada
  last_name: Lovelace
  phone: "5550100"
  email: ada@example.com
`

// isolateHome points HOME at a temp dir so tests never touch the real
// user config.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile("config.yaml", []byte(validConfig), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "abc123" || cfg.AffiliateID != "extest" {
		t.Errorf("unexpected credentials: %+v", cfg)
	}
	if cfg.Customer.FirstName != "Ada" || cfg.Customer.Email != "ada@example.com" {
		t.Errorf("unexpected customer: %+v", cfg.Customer)
	}
	if cfg.Source != "config.yaml" {
		t.Errorf("unexpected source: %s", cfg.Source)
	}
}

func TestLoadFromUserConfigDir(t *testing.T) {
	home := isolateHome(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(home, ".config", "photoprint", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(validConfig), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source != path {
		t.Errorf("expected source %s, got %s", path, cfg.Source)
	}
}

func TestLoadLocalFileWins(t *testing.T) {
	home := isolateHome(t)
	t.Chdir(t.TempDir())

	userPath := filepath.Join(home, ".config", "photoprint", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(userPath), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(userPath, []byte("api_key: user\naffiliate_id: user\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("config.yaml", []byte("api_key: local\naffiliate_id: local\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "local" {
		t.Errorf("expected the local file to win, got %s", cfg.APIKey)
	}
}

func TestLoadNotFound(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())

	_, err := Load()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())

	if err := os.WriteFile("config.yaml", []byte(validConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvAffiliateID, "env-aff")
	t.Setenv(EnvStoreID, "9876")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "env-key" || cfg.AffiliateID != "env-aff" {
		t.Errorf("expected environment to win, got %+v", cfg)
	}
	if cfg.DefaultStore == nil || cfg.DefaultStore.StoreNum != "9876" {
		t.Errorf("expected store from environment, got %+v", cfg.DefaultStore)
	}
}

func TestDotEnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())

	if err := os.WriteFile("config.yaml", []byte(validConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(".env", []byte("PHOTOPRINT_API_KEY=dotenv-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv loads into the process environment; undo it for the
	// tests that follow.
	t.Cleanup(func() { os.Unsetenv(EnvAPIKey) })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "dotenv-key" {
		t.Errorf("expected the .env value to win, got %s", cfg.APIKey)
	}
}

func TestValidateMissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no api key", "affiliate_id: x\n", "api_key"},
		{"no affiliate id", "api_key: x\n", "affiliate_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateHome(t)
			t.Chdir(t.TempDir())
			if err := os.WriteFile("config.yaml", []byte(tt.yaml), 0o600); err != nil {
				t.Fatal(err)
			}

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error naming %s, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateIncompleteCustomer(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())

	partial := "api_key: x\naffiliate_id: y\ncustomer:\n  first_name: Ada\n"
	if err := os.WriteFile("config.yaml", []byte(partial), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "customer") {
		t.Errorf("expected incomplete customer error, got %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())

	if err := os.WriteFile("config.yaml", []byte("api_key: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "YAML") {
		t.Errorf("expected YAML error, got %v", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	home := isolateHome(t)
	t.Chdir(t.TempDir())

	cfg := &Config{
		APIKey:      "k",
		AffiliateID: "a",
		Customer:    Customer{FirstName: "Ada", LastName: "Lovelace", Phone: "5550100", Email: "ada@example.com"},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	path := filepath.Join(home, ".config", "photoprint", "config.yaml")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.APIKey != "k" || loaded.Customer.Email != "ada@example.com" {
		t.Errorf("round trip lost data: %+v", loaded)
	}
}

func TestUpdateDefaultStore(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())

	cfg := &Config{APIKey: "k", AffiliateID: "a"}
	if err := cfg.UpdateDefaultStore(Store{StoreNum: "4242", PromiseTime: "01-02-2026 10:00 AM"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.DefaultStore == nil || loaded.DefaultStore.StoreNum != "4242" {
		t.Errorf("store not persisted: %+v", loaded.DefaultStore)
	}
}

func TestSetup(t *testing.T) {
	home := isolateHome(t)
	t.Chdir(t.TempDir())

	input := strings.NewReader("my-key\nmy-aff\nAda\nLovelace\n5550100\nada@example.com\n")
	cfg, err := Setup(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "my-key" || cfg.AffiliateID != "my-aff" {
		t.Errorf("unexpected credentials: %+v", cfg)
	}
	if cfg.Customer.FirstName != "Ada" {
		t.Errorf("unexpected customer: %+v", cfg.Customer)
	}

	if _, err := os.Stat(filepath.Join(home, ".config", "photoprint", "config.yaml")); err != nil {
		t.Errorf("setup did not write the config file: %v", err)
	}
}

func TestSetupMissingInput(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())

	// Input runs dry before the affiliate ID, so validation must fail.
	input := strings.NewReader("only-key\n")
	if _, err := Setup(input); err == nil {
		t.Fatal("expected error for incomplete setup input")
	}
}
