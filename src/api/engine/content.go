package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
)

// Content sources, in fallback order.
const (
	SourceEditorial   = "editorial"
	SourceIndexer     = "indexer"
	SourceMirror      = "mirror"
	SourceSynthesized = "synthesized"
)

// ResolvedContent is the outcome of the title/content fallback chain.
type ResolvedContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// resolveContent walks the fallback chain: editorial document (placeholder
// content counts as absent), indexer call metadata, content mirror, then a
// synthesized placeholder. The mirror path is best-effort and never errors.
func (o *Orchestrator) resolveContent(ctx context.Context, ref gov.ProposalRef, post *types.EditorialPost, p *indexer.Proposal) ResolvedContent {
	if post != nil {
		content := gov.EffectiveContent(ref.Type, post.Content)
		if post.Title != "" && content != "" {
			return ResolvedContent{Title: post.Title, Content: content, Source: SourceEditorial}
		}
	}

	if p != nil && (p.Method != "" || p.Description != "") {
		content := p.Description
		if content == "" {
			content = renderCallArgs(p)
		}
		if content != "" {
			title := p.Method
			if title == "" {
				title = gov.SynthesizeTitle(ref.Type)
			}
			return ResolvedContent{Title: title, Content: content, Source: SourceIndexer}
		}
	}

	if o.mirror != nil {
		if mc, ok := o.mirror.Fetch(ctx, ref.Type, ref.Network, ref.ID); ok {
			title := mc.Title
			if title == "" {
				title = gov.SynthesizeTitle(ref.Type)
			}
			return ResolvedContent{Title: title, Content: mc.Content, Source: SourceMirror}
		}
	}

	proposer := ""
	if p != nil {
		proposer = gov.ReencodeAddress(p.Proposer, ref.Network)
	}
	if proposer == "" && post != nil {
		proposer = post.ProposerAddress
	}
	return ResolvedContent{
		Title:   gov.SynthesizeTitle(ref.Type),
		Content: gov.SynthesizeContent(ref.Type, ref.Network, proposer),
		Source:  SourceSynthesized,
	}
}

// renderCallArgs turns the preimage call into readable content when the
// indexer supplies no prose description.
func renderCallArgs(p *indexer.Proposal) string {
	if p.Section == "" && p.Method == "" {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s.%s", p.Section, p.Method)
	if len(p.Args) > 0 {
		var pretty map[string]interface{}
		if err := json.Unmarshal(p.Args, &pretty); err == nil && len(pretty) > 0 {
			b.WriteString(": ")
			enc, _ := json.Marshal(pretty)
			b.Write(enc)
		}
	}
	if p.RequestedAmount != "" {
		fmt.Fprintf(&b, " (requested: %s)", p.RequestedAmount)
	}
	return b.String()
}
