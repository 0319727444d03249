package syntax

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pingcap/errors"
)

// DumpShort writes the tree as one line per node, indented by depth.  Leaves
// holding text show it after the emit tag.
func DumpShort(w io.Writer, roots []*Node) error {
	bw := bufio.NewWriter(w)

	var dump func(n *Node, depth int)
	dump = func(n *Node, depth int) {
		bw.WriteString(strings.Repeat("  ", depth))
		bw.WriteString(n.Emit)

		if n.IsLeaf() && n.Text != "" {
			bw.WriteString(" ")
			bw.WriteString(strconv.Quote(n.Text))
		}

		bw.WriteByte('\n')

		for _, child := range n.Children {
			dump(child, depth+1)
		}
	}

	for _, root := range roots {
		dump(root, 0)
	}

	return errors.Trace(bw.Flush())
}

// jsonNode is the JSON form of a node
type jsonNode struct {
	Emit     string      `json:"emit"`
	Match    string      `json:"match,omitempty"`
	Span     [2]int      `json:"span"`
	Children []*jsonNode `json:"children,omitempty"`
}

func toJSONNode(n *Node) *jsonNode {
	jn := &jsonNode{Emit: n.Emit, Match: n.Text, Span: [2]int{n.Span.Start, n.Span.End}}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = toJSONNode(child)
		}
	}

	return jn
}

// DumpJSON writes the tree as a JSON array of its root nodes
func DumpJSON(w io.Writer, roots []*Node) error {
	jroots := make([]*jsonNode, len(roots))
	for i, root := range roots {
		jroots[i] = toJSONNode(root)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Trace(enc.Encode(jroots))
}
