package gov

import (
	"fmt"
	"strings"
)

// The two fixed fragments every synthesized description contains. Stored
// content matching both is treated as unset when resolving titles/content.
const (
	placeholderHeaderPrefix = "This is a "
	placeholderInstruction  = "Only the proposer can edit this description and the title."
)

// SynthesizeContent builds the default description for a proposal that has no
// editorial, indexer or mirror content. proposer may be empty.
func SynthesizeContent(t ProposalType, network, proposer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s.", placeholderHeaderPrefix, t.Title())
	if proposer != "" {
		idField := "proposer address"
		if n, ok := LookupNetwork(network); ok && n.UsesDID {
			idField = "proposer DID"
		}
		fmt.Fprintf(&b, " The %s is %s.", idField, proposer)
	}
	b.WriteString(" ")
	b.WriteString(placeholderInstruction)
	return b.String()
}

// SynthesizeTitle builds the default title for a proposal with no resolved
// title from any source.
func SynthesizeTitle(t ProposalType) string {
	return t.Title()
}

// IsPlaceholder reports whether content is the synthesized default for t
// rather than author-supplied text. Both fixed fragments must match; the
// header fragment is type-specific.
func IsPlaceholder(t ProposalType, content string) bool {
	if content == "" {
		return false
	}
	return strings.Contains(content, placeholderHeaderPrefix+t.Title()) &&
		strings.Contains(content, placeholderInstruction)
}

// EffectiveContent treats placeholder content as absent. Returns "" when
// content is empty or matches the synthesized template for t.
func EffectiveContent(t ProposalType, content string) string {
	if content == "" || IsPlaceholder(t, content) {
		return ""
	}
	return content
}
