package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/depdiffgo/internal/testutil"
)

const appRoot = "com.acme:app:jar:1.0.0"

// writeDump writes a dump file into its own temp dir and returns its path.
func writeDump(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fixtureDumps builds a baseline/candidate pair where slf4j-api is upgraded
// and guava is introduced.
func fixtureDumps(t *testing.T) (baseline, candidate string) {
	t.Helper()
	baseline = writeDump(t, "baseline.dot", testutil.Dump(appRoot,
		testutil.DumpEdge{From: appRoot, To: "org.slf4j:slf4j-api:jar:2.0.9:compile"},
	))
	candidate = writeDump(t, "candidate.dot", testutil.Dump(appRoot,
		testutil.DumpEdge{From: appRoot, To: "org.slf4j:slf4j-api:jar:2.0.12:compile"},
		testutil.DumpEdge{From: appRoot, To: "com.google.guava:guava:jar:33.0.0-jre:compile"},
	))
	return baseline, candidate
}

func TestRunPrintsReportWhenNoTargetConfigured(t *testing.T) {
	// Arrange
	baseline, candidate := fixtureDumps(t)
	testApp, logBuffer := SetupAppTest(t, &Config{
		CandidatePath: candidate,
		BaselinePath:  baseline,
	})

	// Act
	err := testApp.Run(context.Background())

	// Assert
	require.NoError(t, err)
	output := logBuffer.String()
	assert.Contains(t, output, "<!-- depdiffgo:report -->")
	assert.Contains(t, output, "### ➕ Introduced (1)")
	assert.Contains(t, output, "**guava@33.0.0-jre** `compile`")
	assert.Contains(t, output, "### 🔄 Version changes (1)")
	assert.Contains(t, output, "**slf4j-api**: 2.0.9 ⬆️ 2.0.12")
	assert.NotContains(t, output, "### ➖ Removed")
}

func TestRunWritesReportFile(t *testing.T) {
	// Arrange
	baseline, candidate := fixtureDumps(t)
	outputPath := filepath.Join(t.TempDir(), "report.md")
	testApp, _ := SetupAppTest(t, &Config{
		CandidatePath: candidate,
		BaselinePath:  baseline,
		OutputPath:    outputPath,
	})

	// Act
	err := testApp.Run(context.Background())

	// Assert
	require.NoError(t, err)
	written, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(written), "<!-- depdiffgo:report -->"))
	assert.Contains(t, string(written), "**guava@33.0.0-jre**")
}

func TestRunTreatsDashOutputAsStdout(t *testing.T) {
	// Arrange
	baseline, candidate := fixtureDumps(t)
	testApp, logBuffer := SetupAppTest(t, &Config{
		CandidatePath: candidate,
		BaselinePath:  baseline,
		OutputPath:    "-",
	})

	// Act
	err := testApp.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, logBuffer.String(), "**guava@33.0.0-jre**")
	assert.NoFileExists(t, "-")
}

func TestRunReportsNoChangesForIdenticalSides(t *testing.T) {
	// Arrange
	baseline, _ := fixtureDumps(t)
	testApp, logBuffer := SetupAppTest(t, &Config{
		CandidatePath: baseline,
		BaselinePath:  baseline,
	})

	// Act
	err := testApp.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, logBuffer.String(), "✅ No dependency changes detected.")
}

func TestRunPublishesComment(t *testing.T) {
	// Arrange
	var postedText string
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/activities"):
			_ = json.NewEncoder(w).Encode(map[string]any{"values": []any{}, "isLastPage": true})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/comments"):
			authHeader = r.Header.Get("Authorization")
			var payload struct {
				Text string `json:"text"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			postedText = payload.Text
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "version": 0})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	t.Setenv("BITBUCKET_TOKEN", "bb-secret")
	settings := writeSettings(t, fmt.Sprintf(`
bitbucket {
  base_url   = %q
  project    = "PAY"
  repository = "billing-service"
}
`, server.URL))

	baseline, candidate := fixtureDumps(t)
	testApp, _ := SetupAppTest(t, &Config{
		CandidatePath: candidate,
		BaselinePath:  baseline,
		ConfigPath:    settings,
		PullRequest:   42,
	})

	// Act
	err := testApp.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Bearer bb-secret", authHeader)
	assert.Contains(t, postedText, "<!-- depdiffgo:report -->")
	assert.Contains(t, postedText, "**guava@33.0.0-jre**")
}

func TestRunDryRunSkipsPublishing(t *testing.T) {
	// Arrange
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	settings := writeSettings(t, fmt.Sprintf(`
bitbucket {
  base_url   = %q
  project    = "PAY"
  repository = "billing-service"
}
`, server.URL))

	baseline, candidate := fixtureDumps(t)
	testApp, logBuffer := SetupAppTest(t, &Config{
		CandidatePath: candidate,
		BaselinePath:  baseline,
		ConfigPath:    settings,
		PullRequest:   42,
		DryRun:        true,
	})

	// Act
	err := testApp.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Zero(t, requests)
	output := logBuffer.String()
	assert.Contains(t, output, "Dry run, skipping comment upsert.")
	assert.Contains(t, output, "**guava@33.0.0-jre**")
}

func TestRunFailsWhenPullRequestHasNoBitbucketBlock(t *testing.T) {
	// Arrange
	baseline, candidate := fixtureDumps(t)
	testApp, _ := SetupAppTest(t, &Config{
		CandidatePath: candidate,
		BaselinePath:  baseline,
		PullRequest:   42,
	})

	// Act
	err := testApp.Run(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bitbucket block is configured")
}

func TestRunAnnotatesThreats(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("artifactId") == "guava" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"policyViolations": []map[string]any{{
					"policyName":  "Security-Critical",
					"threatLevel": 9,
					"constraintViolations": []map[string]any{{
						"constraintName": "CVSS >= 9",
						"conditions": []map[string]any{{
							"summary": "found vulnerability",
							"reason":  "Found security vulnerability CVE-2024-0001 with severity 9.8",
						}},
					}},
				}},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	t.Setenv("GOVERNANCE_TOKEN", "iq-secret")
	settings := writeSettings(t, fmt.Sprintf(`
governance {
  server_url     = %q
  application_id = "billing-service"
}
`, server.URL))

	baseline, candidate := fixtureDumps(t)
	testApp, logBuffer := SetupAppTest(t, &Config{
		CandidatePath: candidate,
		BaselinePath:  baseline,
		ConfigPath:    settings,
	})

	// Act
	err := testApp.Run(context.Background())

	// Assert
	require.NoError(t, err)
	output := logBuffer.String()
	assert.Contains(t, output, "🔴 **guava@33.0.0-jre**")
	assert.Contains(t, output, "⚠️ **Security-Critical** (threat 9, critical)")
	assert.Contains(t, output, "Found security vulnerability CVE-2024-0001")
}

func TestRunErrors(t *testing.T) {
	baseline, candidate := fixtureDumps(t)
	malformed := writeDump(t, "broken.dot", testutil.Dump(appRoot,
		testutil.DumpEdge{From: appRoot, To: "not:enough"},
	))

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing baseline path",
			cfg:     Config{CandidatePath: candidate, BaselinePath: filepath.Join(t.TempDir(), "absent.dot")},
			wantErr: "failed to read baseline dumps",
		},
		{
			name:    "malformed candidate dump",
			cfg:     Config{CandidatePath: malformed, BaselinePath: baseline},
			wantErr: "failed to parse candidate dumps",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			testApp, _ := SetupAppTest(t, &tc.cfg)

			// Act
			err := testApp.Run(context.Background())

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
