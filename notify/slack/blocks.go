package slack

import (
	"github.com/poiesic/bookdigest/digest"
	"github.com/slack-go/slack"
)

// ToBlocks converts digest blocks to Block Kit blocks, preserving order.
// Unknown block types are rendered as markdown sections.
func ToBlocks(blocks []digest.Block) []slack.Block {
	out := make([]slack.Block, 0, len(blocks))
	for _, b := range blocks {
		switch b.Type {
		case digest.BlockHeader:
			out = append(out, slack.NewHeaderBlock(
				slack.NewTextBlockObject(slack.PlainTextType, b.Text, true, false)))
		case digest.BlockContext:
			out = append(out, slack.NewContextBlock("",
				slack.NewTextBlockObject(slack.MarkdownType, b.Text, false, false)))
		case digest.BlockDivider:
			out = append(out, slack.NewDividerBlock())
		default:
			out = append(out, slack.NewSectionBlock(
				slack.NewTextBlockObject(slack.MarkdownType, b.Text, false, false), nil, nil))
		}
	}
	return out
}
