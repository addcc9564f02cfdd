package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"

	"github.com/ternarybob/transcheck/internal/common"
	"github.com/ternarybob/transcheck/internal/interfaces"
)

// commentMarker identifies the comment this tool owns on a pull request
const commentMarker = "<!-- transcheck-summary -->"

// GitHubPublisher posts the run summary as a pull-request comment,
// editing its previous comment when there is one
type GitHubPublisher struct {
	client      *github.Client
	owner       string
	repo        string
	pullRequest int
	logger      arbor.ILogger
}

var _ interfaces.Publisher = (*GitHubPublisher)(nil)

// NewGitHubPublisher creates a publisher from the github config section
func NewGitHubPublisher(config common.GitHubConfig, logger arbor.ILogger) (*GitHubPublisher, error) {
	if !config.Enabled() {
		return nil, fmt.Errorf("github publishing requires token, repository and pull_request")
	}

	owner, repo, err := config.OwnerRepo()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: config.Token},
	)
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if config.APIURL != "" {
		client, err = client.WithEnterpriseURLs(config.APIURL, config.APIURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api_url: %w", err)
		}
	}

	return &GitHubPublisher{
		client:      client,
		owner:       owner,
		repo:        repo,
		pullRequest: config.PullRequest,
		logger:      logger,
	}, nil
}

// Publish creates or updates the summary comment
func (p *GitHubPublisher) Publish(ctx context.Context, markdown string) error {
	body := commentMarker + "\n" + markdown

	existing, err := p.findComment(ctx)
	if err != nil {
		return err
	}

	if existing != nil {
		_, _, err := p.client.Issues.EditComment(ctx, p.owner, p.repo, existing.GetID(), &github.IssueComment{Body: github.String(body)})
		if err != nil {
			return fmt.Errorf("failed to update pull request comment: %w", err)
		}
		p.logger.Info().
			Str("repository", p.owner+"/"+p.repo).
			Int("pull_request", p.pullRequest).
			Str("comment_id", fmt.Sprintf("%d", existing.GetID())).
			Msg("Updated pull request comment")
		return nil
	}

	comment, _, err := p.client.Issues.CreateComment(ctx, p.owner, p.repo, p.pullRequest, &github.IssueComment{Body: github.String(body)})
	if err != nil {
		return fmt.Errorf("failed to create pull request comment: %w", err)
	}

	p.logger.Info().
		Str("repository", p.owner+"/"+p.repo).
		Int("pull_request", p.pullRequest).
		Str("url", comment.GetHTMLURL()).
		Msg("Published pull request comment")
	return nil
}

func (p *GitHubPublisher) findComment(ctx context.Context) (*github.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := p.client.Issues.ListComments(ctx, p.owner, p.repo, p.pullRequest, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull request comments: %w", err)
		}
		for _, c := range comments {
			if strings.HasPrefix(c.GetBody(), commentMarker) {
				return c, nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}
