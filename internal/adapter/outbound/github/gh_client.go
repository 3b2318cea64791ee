package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const scheme = "github://"

var ErrInvalidLocation = errors.New("invalid github location")

// Location is a parsed github://owner/repo/path/to/file[@ref] URL.
type Location struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

// ParseLocation parses a github:// URL.
func ParseLocation(githubURL string) (Location, error) {
	if !IsGitHubURL(githubURL) {
		return Location{}, fmt.Errorf("%w: %s", ErrInvalidLocation, githubURL)
	}
	rest := strings.TrimPrefix(githubURL, scheme)

	var loc Location
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest, loc.Ref = rest[:i], rest[i+1:]
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Location{}, fmt.Errorf("%w: expected github://owner/repo/path/to/file, got %s", ErrInvalidLocation, githubURL)
	}
	loc.Owner, loc.Repo, loc.Path = parts[0], parts[1], parts[2]
	return loc, nil
}

// APIPath is the contents endpoint of the location.
func (l Location) APIPath() string {
	p := fmt.Sprintf("repos/%s/%s/contents/%s", l.Owner, l.Repo, l.Path)
	if l.Ref != "" {
		p += "?ref=" + l.Ref
	}
	return p
}

// String formats the location back into a github:// URL.
func (l Location) String() string {
	s := scheme + l.Owner + "/" + l.Repo + "/" + l.Path
	if l.Ref != "" {
		s += "@" + l.Ref
	}
	return s
}

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s failed: %s", name, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// GHClient reads repository files through the gh CLI, which handles authentication.
type GHClient struct {
	runner CommandRunner
}

// NewGHClient creates a client backed by the gh executable.
func NewGHClient() *GHClient {
	return &GHClient{runner: execRunner{}}
}

// NewGHClientWithRunner creates a client using a custom command runner.
func NewGHClientWithRunner(runner CommandRunner) *GHClient {
	return &GHClient{runner: runner}
}

// FetchFile returns the raw content of the file at githubURL.
func (c *GHClient) FetchFile(ctx context.Context, githubURL string) ([]byte, error) {
	loc, err := ParseLocation(githubURL)
	if err != nil {
		return nil, err
	}
	if err := c.checkAuth(ctx); err != nil {
		return nil, err
	}
	content, err := c.runner.Run(ctx, "gh", "api", "-H", "Accept: application/vnd.github.raw", loc.APIPath())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", loc, err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("empty response from GitHub for %s", loc)
	}
	return content, nil
}

// checkAuth verifies that gh is installed and logged in.
func (c *GHClient) checkAuth(ctx context.Context) error {
	if _, err := c.runner.Run(ctx, "gh", "auth", "status"); err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "executable file not found"), strings.Contains(msg, "not found"):
			return fmt.Errorf("gh CLI is not installed. Please install it from https://cli.github.com/")
		case strings.Contains(msg, "not logged in"):
			return fmt.Errorf("gh CLI is not authenticated. Please run 'gh auth login' first")
		default:
			return fmt.Errorf("gh auth check failed: %w", err)
		}
	}
	return nil
}

// IsGitHubURL checks if a source uses the github:// scheme.
func IsGitHubURL(source string) bool {
	return strings.HasPrefix(source, scheme)
}
