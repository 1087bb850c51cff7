package node

// Keys of the map form produced by ToMap.
const (
	KeyKind     = "kind"
	KeySymbol   = "symbol"
	KeyName     = "name"
	KeyText     = "text"
	KeyType     = "type"
	KeySpan     = "span"
	KeyStart    = "start"
	KeyEnd      = "end"
	KeyChildren = "children"
)

// ToMap converts the subtree into plain maps and slices suitable for JSON
// and YAML encoders. Absent symbols, types and spans are encoded as nil.
func (n *Node) ToMap() map[string]any {
	out := map[string]any{
		KeyKind:   n.kind.String(),
		KeySymbol: nil,
		KeyType:   nil,
		KeySpan:   nil,
	}

	if sym, ok := n.Symbol(); ok {
		out[KeySymbol] = map[string]any{
			KeyName: sym.SimpleName(),
			KeyText: sym.String(),
		}
	}

	if typ, ok := n.Type(); ok {
		out[KeyType] = typ.String()
	}

	if n.span.IsValid() {
		out[KeySpan] = map[string]any{
			KeyStart: n.span.start,
			KeyEnd:   n.span.end,
		}
	}

	children := make([]any, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, child.ToMap())
	}

	out[KeyChildren] = children

	return out
}
