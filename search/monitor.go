package search

import "github.com/mmg-tools/nxsearch/nexus"

// Monitor provides hooks to observe the search process.
// Implement this interface to track traversal order and token consumption
// during a search.
type Monitor interface {
	Start(tokens []string)
	Visit(node nexus.Node, remaining []string)
	Consumed(node nexus.Node, token string)
	PathResolved(node nexus.Node, path string)
	Finish(found []nexus.Node)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ []string)                     {}
func (n *noopMonitor) Visit(_ nexus.Node, _ []string)       {}
func (n *noopMonitor) Consumed(_ nexus.Node, _ string)      {}
func (n *noopMonitor) PathResolved(_ nexus.Node, _ string)  {}
func (n *noopMonitor) Finish(_ []nexus.Node)                {}
