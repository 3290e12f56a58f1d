package agent

import "fmt"

// New constructs the adapter for a given kind, resolving its
// executable on disk. This is the single place that maps the closed
// Kind enumeration onto concrete strategies.
func New(kind Kind) (Adapter, error) {
	switch kind {
	case KindClaude:
		return NewClaudeAdapter(), nil
	case KindCodex:
		return NewCodexAdapter(), nil
	case KindOpenCode:
		return NewOpenCodeAdapter(), nil
	default:
		return nil, fmt.Errorf("agent: unsupported kind %q", kind)
	}
}
