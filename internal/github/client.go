package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	apperrors "github.com/ghulammurtaza27/debugmaster/internal/errors"
	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// RepositoryRef identifies a repository and the ref to read from.
// An empty Ref means the default branch.
type RepositoryRef struct {
	Owner string
	Name  string
	Ref   string
}

// ID returns the canonical "owner/name" repository identifier
func (r RepositoryRef) ID() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// EntryType distinguishes directory listing entries
type EntryType string

const (
	EntryTypeFile EntryType = "file"
	EntryTypeDir  EntryType = "dir"
)

// Entry is one item of a directory listing
type Entry struct {
	Path string
	Type EntryType
}

// ContentSource is the Source Access Client contract consumed by the walker,
// the analyzer, and the context assembler. Implementations must surface
// rate-limit errors distinguishably (see IsRateLimit) so callers can back off.
type ContentSource interface {
	// ListDirectory lists the immediate children of a repository directory
	ListDirectory(ctx context.Context, ref RepositoryRef, path string) ([]Entry, error)

	// GetFileContent fetches the decoded content of a single file
	GetFileContent(ctx context.Context, ref RepositoryRef, path string) (string, error)

	// FileExists probes whether a path exists in the repository
	FileExists(ctx context.Context, ref RepositoryRef, path string) (bool, error)
}

// Client wraps the GitHub API client with rate limiting
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	logger      *logrus.Logger
}

// NewClient creates a new GitHub client with rate limiting.
// rateLimit is in requests per second; GitHub allows 5,000/hour
// authenticated, so anything above ~1.4/sec eats into the budget fast.
func NewClient(token string, rateLimit int, logger *logrus.Logger) *Client {
	client := github.NewClient(nil).WithAuthToken(token)

	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		logger:      logger,
	}
}

// ListDirectory lists the immediate children of a repository directory
func (c *Client) ListDirectory(ctx context.Context, ref RepositoryRef, path string) ([]Entry, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	opts := &github.RepositoryContentGetOptions{Ref: ref.Ref}
	_, dirContent, _, err := c.client.Repositories.GetContents(ctx, ref.Owner, ref.Name, path, opts)
	if err != nil {
		return nil, apperrors.NetworkError(err, fmt.Sprintf("list directory %q", path))
	}
	if dirContent == nil {
		return nil, fmt.Errorf("list directory %q: path is not a directory", path)
	}

	entries := make([]Entry, 0, len(dirContent))
	for _, item := range dirContent {
		entryType := EntryTypeFile
		if item.GetType() == "dir" {
			entryType = EntryTypeDir
		}
		entries = append(entries, Entry{
			Path: item.GetPath(),
			Type: entryType,
		})
	}

	return entries, nil
}

// GetFileContent fetches the decoded content of a single file
func (c *Client) GetFileContent(ctx context.Context, ref RepositoryRef, path string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	opts := &github.RepositoryContentGetOptions{Ref: ref.Ref}
	fileContent, _, _, err := c.client.Repositories.GetContents(ctx, ref.Owner, ref.Name, path, opts)
	if err != nil {
		return "", apperrors.NetworkError(err, fmt.Sprintf("fetch content %q", path))
	}
	if fileContent == nil {
		return "", fmt.Errorf("fetch content %q: path is a directory", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode content %q: %w", path, err)
	}

	return content, nil
}

// FileExists probes whether a path exists in the repository
func (c *Client) FileExists(ctx context.Context, ref RepositoryRef, path string) (bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}

	opts := &github.RepositoryContentGetOptions{Ref: ref.Ref}
	_, _, _, err := c.client.Repositories.GetContents(ctx, ref.Owner, ref.Name, path, opts)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, apperrors.NetworkError(err, fmt.Sprintf("probe %q", path))
	}
	return true, nil
}

// FetchIssue resolves a defect report by issue number
func (c *Client) FetchIssue(ctx context.Context, ref RepositoryRef, number int) (*models.Issue, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	issue, _, err := c.client.Issues.Get(ctx, ref.Owner, ref.Name, number)
	if err != nil {
		return nil, apperrors.NetworkError(err, fmt.Sprintf("fetch issue #%d", number))
	}

	report := &models.Issue{
		ID:        int(issue.GetID()),
		Number:    issue.GetNumber(),
		Owner:     ref.Owner,
		Repo:      ref.Name,
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		URL:       issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
	}
	for _, label := range issue.Labels {
		report.Labels = append(report.Labels, label.GetName())
	}

	// Stack traces and snippets arrive embedded in the issue body
	report.StackTrace = ExtractStackTrace(report.Body)
	report.CodeSnippets = ExtractCodeSnippets(report.Body)

	return report, nil
}

// IsRateLimit reports whether err is a GitHub rate-limit rejection
func (c *Client) IsRateLimit(err error) bool {
	return IsRateLimit(err)
}

// IsRateLimit reports whether err is a GitHub rate-limit rejection
func IsRateLimit(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &abuseErr)
}

// IsNotFound reports whether err is a 404 from the GitHub API
func IsNotFound(err error) bool {
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
