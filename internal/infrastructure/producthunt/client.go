package producthunt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/levente-murgas/producthunt-ideator/internal/config"
	"github.com/levente-murgas/producthunt-ideator/internal/domain"
	"github.com/levente-murgas/producthunt-ideator/internal/ports"
)

// One page of the posts query, vote-ordered and filtered to the UTC day
// window. The cursor of each page comes from the previous response, so
// pagination is inherently sequential.
const postsQuery = `
{
  posts(order: VOTES, postedAfter: "%sT00:00:00Z", postedBefore: "%sT23:59:59Z", after: "%s") {
    nodes {
      id
      name
      tagline
      description
      votesCount
      createdAt
      featuredAt
      website
      url
      topics {
        edges {
          node {
            name
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

// Client talks to the Product Hunt GraphQL API. The bearer token is obtained
// once via client-credentials exchange and cached for the client's lifetime.
type Client struct {
	tokenURL     string
	apiURL       string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *slog.Logger

	mu    sync.Mutex
	token string
}

var _ ports.ProductSource = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.ProductHuntConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		tokenURL:     cfg.TokenURL,
		apiURL:       cfg.APIURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: 20 * time.Second},
		logger:       logger,
	}
}

// PostsForDate pages through the posts of one calendar day until pagination
// is exhausted or the limit is reached. Any non-200 response is a hard
// failure that aborts the whole run.
func (c *Client) PostsForDate(ctx context.Context, date string, limit int) ([]domain.Product, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var nodes []postNode
	cursor := ""
	hasNext := true

	// Keep paging until the collected count exceeds the limit: stopping at
	// exactly the limit could let a page boundary hide a higher-voted node
	// from the vote-rank truncation downstream.
	for hasNext && len(nodes) <= limit {
		page, err := c.fetchPage(ctx, token, date, cursor)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, page.Nodes...)
		hasNext = page.PageInfo.HasNextPage
		cursor = page.PageInfo.EndCursor
	}

	products := make([]domain.Product, 0, len(nodes))
	for _, node := range nodes {
		products = append(products, node.toDomain())
	}

	c.logger.Debug("fetched posts", "date", date, "count", len(products))
	return products, nil
}

// accessToken performs the client-credentials exchange on first use and
// caches the result.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"grant_type":    "client_credentials",
	})
	if err != nil {
		return "", fmt.Errorf("marshal token payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("token exchange failed: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned an empty token")
	}

	c.token = payload.AccessToken
	return c.token, nil
}

func (c *Client) fetchPage(ctx context.Context, token, date, cursor string) (*postsPage, error) {
	query := fmt.Sprintf(postsQuery, date, date, cursor)
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("posts query failed: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var payload struct {
		Data struct {
			Posts postsPage `json:"posts"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode posts response: %w", err)
	}

	return &payload.Data.Posts, nil
}

type postsPage struct {
	Nodes    []postNode `json:"nodes"`
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
}

type postNode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Tagline     string  `json:"tagline"`
	Description string  `json:"description"`
	VotesCount  int     `json:"votesCount"`
	CreatedAt   string  `json:"createdAt"`
	FeaturedAt  *string `json:"featuredAt"`
	Website     string  `json:"website"`
	URL         string  `json:"url"`
	Topics      struct {
		Edges []struct {
			Node struct {
				Name string `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"topics"`
}

func (n postNode) toDomain() domain.Product {
	createdAt, _ := time.Parse(time.RFC3339, n.CreatedAt)

	topics := make([]string, 0, len(n.Topics.Edges))
	for _, edge := range n.Topics.Edges {
		topics = append(topics, edge.Node.Name)
	}

	return domain.Product{
		ID:          n.ID,
		Name:        n.Name,
		Tagline:     n.Tagline,
		Description: n.Description,
		VotesCount:  n.VotesCount,
		CreatedAt:   createdAt,
		Website:     n.Website,
		URL:         n.URL,
		Featured:    n.FeaturedAt != nil && *n.FeaturedAt != "",
		Topics:      topics,
	}
}
