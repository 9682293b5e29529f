package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/webclient"
)

const defaultTimeout = 30 * time.Second

// Client talks to the external on-chain indexer (GraphQL over HTTP). All
// failures are recoverable from the caller's point of view; the orchestrator
// always has a fallback path.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: webclient.NewDefault(defaultTimeout),
	}
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query runs one GraphQL query against the network's indexer and returns the
// raw data document.
func (c *Client) Query(ctx context.Context, network, template string, vars map[string]interface{}) (json.RawMessage, error) {
	url := fmt.Sprintf("%s?network=%s", c.endpoint, network)
	var resp gqlResponse
	var reqErr error
	_, _, err := webclient.DoWithRetry(ctx, 3, time.Second, func() (int, []byte, error) {
		reqErr = webclient.PostJSON(ctx, c.httpClient, url, gqlRequest{Query: template, Variables: vars}, &resp)
		if reqErr == nil {
			return http.StatusOK, nil, nil
		}
		// Client errors never recover on retry; only 429/5xx/transport
		// failures are worth another attempt.
		var se *webclient.StatusError
		if errors.As(reqErr, &se) && se.Code != http.StatusTooManyRequests && se.Code < 500 {
			return se.Code, nil, nil
		}
		return 0, nil, reqErr
	})
	if err == nil {
		err = reqErr
	}
	if err != nil {
		return nil, fmt.Errorf("indexer %s: %w", network, err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("indexer %s: %s", network, resp.Errors[0].Message)
	}
	return resp.Data, nil
}

// ListProposals fetches one page of proposals plus the total count.
func (c *Client) ListProposals(ctx context.Context, network string, t gov.ProposalType, page, pageSize int, sortBy string, statuses []string) ([]*Proposal, int, error) {
	vars := map[string]interface{}{
		"type":    t.String(),
		"limit":   pageSize,
		"offset":  (page - 1) * pageSize,
		"orderBy": sortBy,
	}
	if len(statuses) > 0 {
		vars["statuses"] = statuses
	}
	raw, err := c.Query(ctx, network, listTemplate, vars)
	if err != nil {
		return nil, 0, err
	}

	var payload struct {
		Proposals  []rawProposal `json:"proposals"`
		Connection struct {
			TotalCount int `json:"totalCount"`
		} `json:"proposalsConnection"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, 0, fmt.Errorf("indexer list decode: %w", err)
	}

	items := make([]*Proposal, 0, len(payload.Proposals))
	for _, r := range payload.Proposals {
		p, err := r.validate()
		if err != nil {
			log.Printf("indexer %s: dropping row: %v", network, err)
			continue
		}
		items = append(items, p)
	}
	return items, payload.Connection.TotalCount, nil
}

// GetProposal fetches a single proposal with tally and group membership.
func (c *Client) GetProposal(ctx context.Context, ref gov.ProposalRef) (*Proposal, error) {
	vars := map[string]interface{}{"type": ref.Type.String()}
	if n, ok := ref.NumericID(); ok {
		vars["index"] = n
	} else {
		vars["hash"] = ref.ID
	}
	raw, err := c.Query(ctx, ref.Network, singleTemplate, vars)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Proposal *rawProposal `json:"proposal"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("indexer single decode: %w", err)
	}
	if payload.Proposal == nil {
		return nil, nil
	}
	return payload.Proposal.validate()
}

// ChildBounties resolves the child rows for a bounty listing page.
func (c *Client) ChildBounties(ctx context.Context, network string, parentIndex uint64) ([]*Proposal, error) {
	raw, err := c.Query(ctx, network, childBountiesTemplate, map[string]interface{}{"parent": parentIndex})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Proposals []rawProposal `json:"proposals"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("indexer child bounties decode: %w", err)
	}
	out := make([]*Proposal, 0, len(payload.Proposals))
	for _, r := range payload.Proposals {
		if p, err := r.validate(); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// Votes fetches the per-voter breakdown (motion votes, tippers).
func (c *Client) Votes(ctx context.Context, ref gov.ProposalRef) ([]Vote, error) {
	vars := map[string]interface{}{"type": ref.Type.String()}
	if n, ok := ref.NumericID(); ok {
		vars["index"] = n
	} else {
		vars["hash"] = ref.ID
	}
	raw, err := c.Query(ctx, ref.Network, votesTemplate, vars)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Votes []Vote `json:"votes"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("indexer votes decode: %w", err)
	}
	return payload.Votes, nil
}

// VoterHistory fetches recent votes cast by one address.
func (c *Client) VoterHistory(ctx context.Context, network, voter string, limit int) ([]Vote, error) {
	if limit <= 0 {
		limit = 10
	}
	raw, err := c.Query(ctx, network, voterHistoryTemplate, map[string]interface{}{
		"voter": voter,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Votes []Vote `json:"votes"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("indexer voter history decode: %w", err)
	}
	return payload.Votes, nil
}
