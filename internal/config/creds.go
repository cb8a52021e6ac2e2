package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables holding credentials. Tokens never appear in the
// settings file; they are read from the environment only.
const (
	EnvGovernanceToken = "GOVERNANCE_TOKEN"
	EnvBitbucketToken  = "BITBUCKET_TOKEN"
)

// Credentials carries the secrets read from the environment. Empty fields
// mean the matching collaborator runs unauthenticated or stays disabled.
type Credentials struct {
	GovernanceToken string
	BitbucketToken  string
}

// LoadCredentials reads the tokens from the environment. A local .env file
// is loaded first when present so developers can run the tool outside CI;
// in CI the variables come from the pipeline and the file is absent.
func LoadCredentials() Credentials {
	_ = godotenv.Load()

	return Credentials{
		GovernanceToken: os.Getenv(EnvGovernanceToken),
		BitbucketToken:  os.Getenv(EnvBitbucketToken),
	}
}
