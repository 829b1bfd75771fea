package gcp

import (
	"os"
	"strings"

	"google.golang.org/api/option"
)

func ClientOptionsFromEnv() []option.ClientOption {
	creds := credentialsFromEnv()
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// HasExplicitCredentials reports whether a service account was supplied through env.
// Ambient credentials (metadata server, gcloud ADC) are not detected here.
func HasExplicitCredentials() bool {
	return credentialsFromEnv() != ""
}

func credentialsFromEnv() string {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	return creds
}
