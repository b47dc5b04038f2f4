package physical

import (
	"fmt"
	"io"
	"strings"
)

// PrintAsTree renders the plan as an indented tree for explain output.
func PrintAsTree(p *Plan) string {
	var sb strings.Builder
	for _, root := range p.Roots() {
		writeTree(&sb, p, root, 0)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeTree(w io.Writer, p *Plan, n Node, depth int) {
	fmt.Fprintf(w, "%s%s: %s\n", strings.Repeat("    ", depth), n.Type(), explainNode(n))
	for _, child := range p.Children(n) {
		writeTree(w, p, child, depth+1)
	}
}

func explainNode(n Node) string {
	switch node := n.(type) {
	case *GridSource:
		if node.Expr != nil {
			return fmt.Sprintf("%s, expr=[%s]", node, node.Expr)
		}
		return node.String()
	default:
		return ""
	}
}
