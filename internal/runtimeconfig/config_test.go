package runtimeconfig

import (
	"errors"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateDisabledSkipsChecks(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled config should skip validation, got %v", err)
	}
}

func TestValidateSiteTitleRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.Title = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrSiteTitleRequired) {
		t.Fatalf("expected ErrSiteTitleRequired, got %v", err)
	}
}

func TestValidateContentDirRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Content.Dir = ""
	if err := cfg.Validate(); !errors.Is(err, ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestValidateGeneratorOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.OutputDir = ""
	if err := cfg.Validate(); !errors.Is(err, ErrGeneratorOutputDirRequired) {
		t.Fatalf("expected ErrGeneratorOutputDirRequired, got %v", err)
	}

	cfg.Features.Generator = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("generator disabled should not require output dir, got %v", err)
	}
}

func TestValidateThemeRequiresFeature(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Theme.DefaultTheme = "aurora"
	if err := cfg.Validate(); !errors.Is(err, ErrThemesFeatureRequired) {
		t.Fatalf("expected ErrThemesFeatureRequired, got %v", err)
	}

	cfg.Features.Themes = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("themes enabled should validate, got %v", err)
	}
}

func TestValidateStorage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Driver = "mongodb"
	if err := cfg.Validate(); !errors.Is(err, ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}

	cfg.Storage.Driver = StorageDriverSQLite
	cfg.Storage.DSN = ""
	if err := cfg.Validate(); !errors.Is(err, ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}

	cfg.Storage.DSN = "file::memory:?cache=shared"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sqlite storage with dsn should validate, got %v", err)
	}

	// Postgres connects through an injected handle, so no DSN is needed.
	cfg.Storage.Driver = StorageDriverPostgres
	cfg.Storage.DSN = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("postgres storage without dsn should validate, got %v", err)
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}
