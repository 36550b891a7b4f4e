package popularity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/bigquery"
)

// TestQueryContract pins the parts of the ranking query that callers
// depend on: the dataset, the installer filter, the day window and the
// result cap.
func TestQueryContract(t *testing.T) {
	for _, fragment := range []string{
		"`bigquery-public-data.pypi.file_downloads`",
		"details.installer.name = 'pip'",
		"DATE_SUB(CURRENT_DATE(), INTERVAL 1 DAY)",
		"ORDER BY num_downloads DESC",
		"LIMIT 1000",
	} {
		if !strings.Contains(topDownloadsQuery, fragment) {
			t.Errorf("query should contain %q", fragment)
		}
	}
}

func TestProjectColumn(t *testing.T) {
	name, err := projectColumn([]bigquery.Value{"requests", int64(1234567)})
	if err != nil {
		t.Fatalf("projectColumn should succeed, got error: %v", err)
	}
	if name != "requests" {
		t.Errorf("name should be %q, got %q", "requests", name)
	}

	if _, err := projectColumn(nil); err == nil {
		t.Error("empty row should be an error")
	}
	if _, err := projectColumn([]bigquery.Value{int64(7)}); err == nil {
		t.Error("non-string project column should be an error")
	}
}

func TestDetectCredentialsServiceAccount(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(keyFile, []byte("{}"), 0600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	t.Setenv(credentialsEnv, keyFile)

	creds, err := DetectCredentials()
	if err != nil {
		t.Fatalf("DetectCredentials should succeed, got error: %v", err)
	}
	if creds.Kind != CredentialServiceAccount {
		t.Errorf("kind should be service account, got %v", creds.Kind)
	}
	if creds.KeyFile != keyFile {
		t.Errorf("key file should be %q, got %q", keyFile, creds.KeyFile)
	}
}

func TestDetectCredentialsMissingKeyFile(t *testing.T) {
	t.Setenv(credentialsEnv, filepath.Join(t.TempDir(), "does-not-exist.json"))

	if _, err := DetectCredentials(); err == nil {
		t.Error("a dangling credentials path should be an error")
	}
}

func TestDetectCredentialsInstanceMetadata(t *testing.T) {
	t.Setenv(credentialsEnv, "")
	swapOnGCE(t, true)

	creds, err := DetectCredentials()
	if err != nil {
		t.Fatalf("DetectCredentials should succeed on GCE, got error: %v", err)
	}
	if creds.Kind != CredentialInstanceMetadata {
		t.Errorf("kind should be instance metadata, got %v", creds.Kind)
	}
}

func TestDetectCredentialsNone(t *testing.T) {
	t.Setenv(credentialsEnv, "")
	swapOnGCE(t, false)

	if _, err := DetectCredentials(); err == nil {
		t.Error("no credential source should be an error")
	}
}

func TestResolveProject(t *testing.T) {
	t.Setenv(projectEnv, "mirror-analytics")
	id, err := ResolveProject()
	if err != nil {
		t.Fatalf("ResolveProject should succeed, got error: %v", err)
	}
	if id != "mirror-analytics" {
		t.Errorf("project should be %q, got %q", "mirror-analytics", id)
	}

	t.Setenv(projectEnv, "")
	if _, err := ResolveProject(); err == nil {
		t.Error("unset project should be an error")
	}
}

func swapOnGCE(t *testing.T, value bool) {
	t.Helper()
	orig := onGCE
	onGCE = func() bool { return value }
	t.Cleanup(func() { onGCE = orig })
}
