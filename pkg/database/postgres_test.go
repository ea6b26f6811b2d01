package database

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	err := Config{Host: "db", User: "neo"}.Validate()
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
	if !strings.Contains(err.Error(), "POSTGRES_PASSWORD, POSTGRES_DB") {
		t.Errorf("error should list missing settings, got %q", err)
	}

	full := Config{Host: "db", User: "neo", Password: "secret", DBName: "space"}
	if err := full.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigDSNDefaults(t *testing.T) {
	dsn := Config{Host: "db", User: "neo", Password: "secret", DBName: "space"}.DSN()
	for _, part := range []string{"host=db", "port=5432", "sslmode=disable", "dbname=space"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("dsn %q missing %q", dsn, part)
		}
	}
}

func TestConnectRejectsIncompleteConfig(t *testing.T) {
	db, err := Connect(Config{})
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
	if db != nil {
		t.Error("db should be nil on failure")
	}
	if err := Close(nil); err != nil {
		t.Errorf("closing nil db should be a no-op, got %v", err)
	}
}
