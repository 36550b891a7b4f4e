package popularity

import (
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/compute/metadata"
)

const (
	credentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"
	projectEnv     = "PROJECT_ID"
)

// CredentialKind discriminates how the warehouse client authenticates.
type CredentialKind int

const (
	// CredentialServiceAccount authenticates with the key file named by
	// GOOGLE_APPLICATION_CREDENTIALS.
	CredentialServiceAccount CredentialKind = iota
	// CredentialInstanceMetadata authenticates with the identity of the
	// GCE instance the run happens on.
	CredentialInstanceMetadata
)

// Credentials is the detected credential source. KeyFile is set only for
// CredentialServiceAccount.
type Credentials struct {
	Kind    CredentialKind
	KeyFile string
}

// onGCE is a variable so tests can pretend to run on an instance.
var onGCE = metadata.OnGCE

// DetectCredentials picks the credential source from the environment: an
// explicit service-account key file when the conventional variable names
// one, otherwise the instance identity when running on GCE. Anything
// else is an error; the popularity query cannot run anonymously.
func DetectCredentials() (Credentials, error) {
	if path := os.Getenv(credentialsEnv); path != "" {
		if _, err := os.Stat(path); err != nil {
			return Credentials{}, fmt.Errorf("credentials file %q: %w", path, err)
		}
		return Credentials{Kind: CredentialServiceAccount, KeyFile: path}, nil
	}
	if onGCE() {
		return Credentials{Kind: CredentialInstanceMetadata}, nil
	}
	return Credentials{}, errors.New("no credentials found: set " + credentialsEnv + " or run on GCE")
}

// ResolveProject returns the project the query is billed to, taken from
// the PROJECT_ID environment variable.
func ResolveProject() (string, error) {
	if id := os.Getenv(projectEnv); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%s is not set", projectEnv)
}
