package mirror

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/webclient"
)

const defaultTimeout = 20 * time.Second

// typePaths maps each proposal type to its mirror URL segment. Exhaustive
// over gov.AllProposalTypes; see TestTypePathsExhaustive.
var typePaths = map[gov.ProposalType]string{
	gov.DemocracyProposal:     "democracy/proposals",
	gov.TechCommitteeProposal: "techcomm/proposals",
	gov.TreasuryProposal:      "treasury/proposals",
	gov.Referendum:            "democracy/referendums",
	gov.CouncilMotion:         "motions",
	gov.Bounty:                "treasury/bounties",
	gov.Tip:                   "treasury/tips",
	gov.ChildBounty:           "treasury/child-bounties",
	gov.ReferendumV2:          "gov2/referendums",
	gov.FellowshipReferendum:  "fellowship/referenda",
}

// Content is the best-effort payload the mirror returns.
type Content struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListItem is the degraded shape of a mirror index row, used when the
// primary indexer is down.
type ListItem struct {
	Index     *uint64   `json:"referendumIndex"`
	Hash      string    `json:"hash"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Proposer  string    `json:"proposer"`
	Status    string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

// Client fetches proposal content from the external mirror. Every method is
// best-effort: failures yield empty results, never errors that matter to the
// read path.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sanitizer  *bluemonday.Policy
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: webclient.NewDefault(defaultTimeout),
		sanitizer:  bluemonday.UGCPolicy(),
	}
}

func (c *Client) itemURL(t gov.ProposalType, network, id string) (string, bool) {
	path, ok := typePaths[t]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, network, path, id), true
}

// Fetch returns the mirror's title/content for one proposal. A miss or any
// upstream failure returns an empty Content and ok=false.
func (c *Client) Fetch(ctx context.Context, t gov.ProposalType, network, id string) (Content, bool) {
	url, ok := c.itemURL(t, network, id)
	if !ok {
		return Content{}, false
	}
	var out Content
	if err := webclient.GetJSON(ctx, c.httpClient, url, &out); err != nil {
		return Content{}, false
	}
	out.Title = strings.TrimSpace(out.Title)
	out.Content = strings.TrimSpace(c.sanitizer.Sanitize(out.Content))
	if out.Title == "" && out.Content == "" {
		return Content{}, false
	}
	return out, true
}

// List returns the mirror's own index page for a proposal type. Used only as
// the degraded fallback when the primary indexer is unavailable.
func (c *Client) List(ctx context.Context, t gov.ProposalType, network string, page, pageSize int) ([]ListItem, bool) {
	path, ok := typePaths[t]
	if !ok {
		return nil, false
	}
	url := fmt.Sprintf("%s/%s/%s?page=%d&page_size=%d", c.baseURL, network, path, page, pageSize)
	var out struct {
		Items []ListItem `json:"items"`
	}
	if err := webclient.GetJSON(ctx, c.httpClient, url, &out); err != nil {
		return nil, false
	}
	for i := range out.Items {
		out.Items[i].Content = strings.TrimSpace(c.sanitizer.Sanitize(out.Items[i].Content))
	}
	return out.Items, true
}
