package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
)

// UpdateEditorial writes an author edit to the editorial store and
// invalidates every cached page that could embed the old title/content.
func (o *Orchestrator) UpdateEditorial(ctx context.Context, ref gov.ProposalRef, title, content string, userID uint64) error {
	if !gov.ValidNetwork(ref.Network) {
		return ValidationError(fmt.Sprintf("unknown network %q", ref.Network))
	}
	if !ref.Type.Valid() {
		return ValidationError("unknown proposal type")
	}
	id, ok := ref.NormalizeID()
	if !ok {
		return ValidationError(fmt.Sprintf("bad proposal id %q", ref.ID))
	}
	ref.ID = id
	if userID == 0 {
		return AuthorizationError("edit requires an authenticated user")
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" && content == "" {
		return ValidationError("nothing to update")
	}

	if err := o.store.UpdateContent(ctx, ref, title, content, userID); err != nil {
		log.Printf("editorial: update %s/%s/%s: %v", ref.Network, ref.Type, ref.ID, err)
		return UpstreamError()
	}
	if err := o.cache.Invalidate(ctx, ref.Network, ref.Type); err != nil {
		log.Printf("editorial: cache invalidate %s/%s: %v", ref.Network, ref.Type, err)
	}
	return nil
}
