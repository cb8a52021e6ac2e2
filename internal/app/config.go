package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CandidatePath string // dump file or directory for the change under review
	BaselinePath  string // dump file or directory for the target branch
	ConfigPath    string // optional HCL settings file
	OutputPath    string // optional file the rendered report is written to
	PullRequest   int    // pull request to comment on, 0 disables publishing
	DryRun        bool   // render and print instead of posting

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.CandidatePath == "" {
		return nil, errors.New("CandidatePath is a required configuration field and cannot be empty")
	}
	if cfg.BaselinePath == "" {
		return nil, errors.New("BaselinePath is a required configuration field and cannot be empty")
	}
	if cfg.PullRequest < 0 {
		return nil, errors.New("PullRequest must be a positive pull request id")
	}

	return &cfg, nil
}
