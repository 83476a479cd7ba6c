package analysis

import "strings"

// FragmentKind discriminates the inline pieces an interpretation is built
// from. Keeping interpretations structured lets the PDF renderer style them
// without ever parsing markup out of strings.
type FragmentKind string

const (
	FragmentPlain FragmentKind = "plain"
	FragmentBold  FragmentKind = "bold"
	FragmentBreak FragmentKind = "break"
)

// Fragment is one inline piece of an interpretation.
type Fragment struct {
	Kind FragmentKind `json:"kind"`
	Text string       `json:"text,omitempty"`
}

func Plain(text string) Fragment { return Fragment{Kind: FragmentPlain, Text: text} }
func Bold(text string) Fragment  { return Fragment{Kind: FragmentBold, Text: text} }
func Break() Fragment            { return Fragment{Kind: FragmentBreak} }

// FlattenFragments renders fragments as plain text, for logs and the video
// renderer's text scenes.
func FlattenFragments(fragments []Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		if f.Kind == FragmentBreak {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(f.Text)
	}
	return b.String()
}
