package digest

// BlockType is the kind of a rendered block.
type BlockType string

const (
	// BlockHeader is a plain-text title.
	BlockHeader BlockType = "header"
	// BlockSection is a markdown text section.
	BlockSection BlockType = "section"
	// BlockContext is small secondary markdown text.
	BlockContext BlockType = "context"
	// BlockDivider is a horizontal rule and carries no text.
	BlockDivider BlockType = "divider"
)

// Block is one independently rendered unit of a notification message.
type Block struct {
	Type BlockType `json:"type"`
	Text string    `json:"text,omitempty"`
}

// Header returns a header block.
func Header(text string) Block { return Block{Type: BlockHeader, Text: text} }

// Section returns a markdown section block.
func Section(text string) Block { return Block{Type: BlockSection, Text: text} }

// Context returns a context block.
func Context(text string) Block { return Block{Type: BlockContext, Text: text} }

// Divider returns a divider block.
func Divider() Block { return Block{Type: BlockDivider} }
