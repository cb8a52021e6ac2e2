// Package config loads the optional HCL settings file and the environment
// credentials. CLI flags stay in the cli package; this package covers
// everything that would be checked into the repository (the settings file)
// or injected by CI (tokens).
package config

// File is the decoded form of the settings file. Every block is optional;
// a missing governance or bitbucket block disables that collaborator.
type File struct {
	Report     *ReportBlock     `hcl:"report,block"`
	Governance *GovernanceBlock `hcl:"governance,block"`
	Bitbucket  *BitbucketBlock  `hcl:"bitbucket,block"`
}

// ReportBlock tunes report rendering.
type ReportBlock struct {
	// Title heads the report comment.
	Title string `hcl:"title,optional"`
	// MaxTransitive caps the transitive rows listed per component.
	MaxTransitive int `hcl:"max_transitive,optional"`
	// SortByThreat orders each section most severe first. Default true.
	SortByThreat *bool `hcl:"sort_by_threat,optional"`
}

// GovernanceBlock configures the policy-violation lookup client.
type GovernanceBlock struct {
	ServerURL     string `hcl:"server_url"`
	ApplicationID string `hcl:"application_id"`
	Username      string `hcl:"username,optional"`
	// Timeout is a duration string, e.g. "30s".
	Timeout   string `hcl:"timeout,optional"`
	CacheSize int    `hcl:"cache_size,optional"`
}

// BitbucketBlock configures the pull-request comment publisher.
type BitbucketBlock struct {
	BaseURL    string `hcl:"base_url"`
	Project    string `hcl:"project"`
	Repository string `hcl:"repository"`
	// Timeout is a duration string, e.g. "30s".
	Timeout string `hcl:"timeout,optional"`
}
