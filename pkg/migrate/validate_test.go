package migrate

import "testing"

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations must validate: %v", err)
	}
}

func TestValidateDirRejectsMissingDir(t *testing.T) {
	if err := ValidateDir(""); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
