// Package preflight runs non-destructive environment checks before a
// reconciliation: credential inspection, OIDC issuer discovery and
// repository existence. Checks warn, they never mutate anything.
package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v80/github"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/fedmap/internal/config"
)

type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Result is the outcome of one check.
type Result struct {
	Check  string `json:"check"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// expiryWarning flags admin credentials that expire soon enough that a
// scheduled re-run would fail.
const expiryWarning = 7 * 24 * time.Hour

type Runner struct {
	cfg        *config.Config
	adminToken string
	github     *github.Client
}

func NewRunner(cfg *config.Config, adminToken string) *Runner {
	gh := github.NewClient(nil)
	// unauthenticated works for public repositories, but rate limits bite fast
	if ghToken := os.Getenv("GITHUB_TOKEN"); ghToken != "" {
		gh = gh.WithAuthToken(ghToken)
	}
	return &Runner{
		cfg:        cfg,
		adminToken: adminToken,
		github:     gh,
	}
}

// Run executes all checks in order and returns every result.
func (r *Runner) Run(ctx context.Context) []Result {
	results := []Result{r.CheckCredential()}
	results = append(results, r.CheckIssuer(ctx))
	results = append(results, r.CheckRepositories(ctx)...)
	return results
}

// CheckCredential inspects the admin credential without verifying it.
// Opaque (non-JWT) tokens cannot be inspected and only warn.
func (r *Runner) CheckCredential() Result {
	const check = "admin credential"

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(r.adminToken, jwt.MapClaims{})
	if err != nil {
		return Result{Check: check, Status: StatusWarn,
			Detail: "credential is not a JWT, cannot inspect expiry"}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Result{Check: check, Status: StatusWarn, Detail: "credential carries no readable claims"}
	}

	subject := "(unknown subject)"
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		subject = sub
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Result{Check: check, Status: StatusOK,
			Detail: fmt.Sprintf("%s, no expiry claim", subject)}
	}

	remaining := time.Until(exp.Time)
	switch {
	case remaining <= 0:
		return Result{Check: check, Status: StatusFail,
			Detail: fmt.Sprintf("%s, expired %s ago", subject, (-remaining).Round(time.Minute))}
	case remaining < expiryWarning:
		return Result{Check: check, Status: StatusWarn,
			Detail: fmt.Sprintf("%s, expires in %s", subject, remaining.Round(time.Minute))}
	default:
		return Result{Check: check, Status: StatusOK,
			Detail: fmt.Sprintf("%s, expires in %s", subject, remaining.Round(time.Hour))}
	}
}

// CheckIssuer performs OIDC discovery against the integration's issuer URL,
// the same discovery the platform does when it validates inbound tokens.
func (r *Runner) CheckIssuer(ctx context.Context) Result {
	check := fmt.Sprintf("issuer discovery (%s)", r.cfg.Integration.Name)

	// only github integrations carry an issuer we know how to discover
	if r.cfg.Integration.Type != "github" {
		return Result{Check: check, Status: StatusWarn,
			Detail: fmt.Sprintf("integration type %q not supported, discovery skipped", r.cfg.Integration.Type)}
	}

	settings, err := r.cfg.Integration.GitHubSettings()
	if err != nil {
		return Result{Check: check, Status: StatusFail, Detail: err.Error()}
	}

	if _, err := oidc.NewProvider(ctx, settings.IssuerURL); err != nil {
		return Result{Check: check, Status: StatusFail,
			Detail: fmt.Sprintf("discovery against %s failed: %v", settings.IssuerURL, err)}
	}

	return Result{Check: check, Status: StatusOK,
		Detail: fmt.Sprintf("issuer %s discovered", settings.IssuerURL)}
}

// CheckRepositories verifies each target repository exists on the
// source-control host. A mapping for a repository that does not exist is not
// wrong, just useless, so misses only warn.
func (r *Runner) CheckRepositories(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.cfg.Services))

	for _, service := range r.cfg.Services {
		repo := fmt.Sprintf("%s-%s", r.cfg.ServicePrefix, service)
		check := fmt.Sprintf("repository %s/%s", r.cfg.Organization, repo)

		_, resp, err := r.github.Repositories.Get(ctx, r.cfg.Organization, repo)
		switch {
		case err == nil:
			results = append(results, Result{Check: check, Status: StatusOK})
		case resp != nil && resp.StatusCode == http.StatusNotFound:
			results = append(results, Result{Check: check, Status: StatusWarn,
				Detail: "repository not found, mapping would never match"})
		default:
			log.Ctx(ctx).Debug().Err(err).Str("repository", repo).Msg("repository lookup failed")
			results = append(results, Result{Check: check, Status: StatusWarn,
				Detail: fmt.Sprintf("lookup failed: %v", err)})
		}
	}

	return results
}
