package search

import (
	"log/slog"

	"github.com/mmg-tools/nxsearch/nexus"
)

// Searcher walks data trees matching identity tokens against nodes.
// The zero configuration is fully usable; options attach a logger or a
// Monitor for observing traversal.
type Searcher struct {
	logger  *slog.Logger
	monitor Monitor
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMonitor sets a traversal monitor.
// Default is a no-op monitor.
func WithMonitor(monitor Monitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(opts ...Option) (*Searcher, error) {
	s := &Searcher{
		logger:  slog.Default(),
		monitor: &noopMonitor{},
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func defaultSearcher() *Searcher {
	return &Searcher{logger: slog.Default(), monitor: &noopMonitor{}}
}

// Find returns the first node matching the token list, or nil when
// nothing matches. Tokens are consumed left to right; each names a node
// by literal name, class, local_name, declared definition, or the
// structural roles "axes"/"signal". The last token may be a direct
// slash-separated path. Traversal explores the @default child first,
// then datasets, then remaining children in insertion order.
func (s *Searcher) Find(root *nexus.Group, tokens ...string) (nexus.Node, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}

	s.monitor.Start(tokens)
	found := s.find(root, tokens)
	if found == nil {
		s.logger.Debug("search exhausted without a match", "tokens", tokens)
		s.monitor.Finish(nil)
		return nil, nil
	}
	s.monitor.Finish([]nexus.Node{found})
	return found, nil
}

func (s *Searcher) find(group *nexus.Group, tokens []string) nexus.Node {
	// a single remaining token may resolve as a direct path
	if len(tokens) == 1 {
		if n, ok := group.At(tokens[0]); ok {
			s.monitor.PathResolved(n, tokens[0])
			return n
		}
	}

	axes, signal := structuralNames(group)
	for _, name := range firstMatchOrder(group) {
		child, _ := group.Child(name)
		remaining := consume(child, tokens, axes, signal)
		s.monitor.Visit(child, remaining)
		if len(remaining) < len(tokens) {
			s.monitor.Consumed(child, tokens[0])
		}
		if len(remaining) == 0 {
			return child
		}
		// descend regardless of the match, with the reduced list on a
		// match and the full list otherwise
		if sub, ok := child.(*nexus.Group); ok {
			if found := s.find(sub, remaining); found != nil {
				return found
			}
		}
	}
	return nil
}

// FindAll returns every node matching the token list, in natural
// insertion order. Results are not deduplicated: a node recorded through
// the direct-path shortcut may be recorded again through an identity
// match. An exhausted search returns an empty list, not an error.
func (s *Searcher) FindAll(root *nexus.Group, tokens ...string) ([]nexus.Node, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	if len(tokens) == 0 {
		return nil, ErrNoTokens
	}

	s.monitor.Start(tokens)
	found := s.findAll(root, tokens)
	s.monitor.Finish(found)
	return found, nil
}

func (s *Searcher) findAll(group *nexus.Group, tokens []string) []nexus.Node {
	var found []nexus.Node
	if len(tokens) == 1 {
		if n, ok := group.At(tokens[0]); ok {
			s.monitor.PathResolved(n, tokens[0])
			found = append(found, n)
		}
	}

	axes, signal := structuralNames(group)
	for _, name := range group.Names() {
		child, _ := group.Child(name)
		remaining := consume(child, tokens, axes, signal)
		s.monitor.Visit(child, remaining)
		if len(remaining) < len(tokens) {
			s.monitor.Consumed(child, tokens[0])
		}
		if len(remaining) == 0 {
			// a group consuming the final token is itself the result;
			// its interior is not searched further
			found = append(found, child)
			continue
		}
		if sub, ok := child.(*nexus.Group); ok {
			found = append(found, s.findAll(sub, remaining)...)
		}
	}
	return found
}

// FindValue returns the decoded value of the dataset matching the token
// list: a float64 or string for scalars, a []float64 or []string for
// arrays. When the search matches nothing, matches a group, or matches
// an empty dataset, the caller's fallback is returned unchanged.
func (s *Searcher) FindValue(root *nexus.Group, fallback any, tokens ...string) (any, error) {
	n, err := s.Find(root, tokens...)
	if err != nil {
		return fallback, err
	}
	if d, ok := n.(*nexus.Dataset); ok {
		if v := d.Value(); v != nil {
			return v, nil
		}
	}
	return fallback, nil
}

// Find searches with a default Searcher. See Searcher.Find.
func Find(root *nexus.Group, tokens ...string) (nexus.Node, error) {
	return defaultSearcher().Find(root, tokens...)
}

// FindAll searches with a default Searcher. See Searcher.FindAll.
func FindAll(root *nexus.Group, tokens ...string) ([]nexus.Node, error) {
	return defaultSearcher().FindAll(root, tokens...)
}

// FindValue searches with a default Searcher. See Searcher.FindValue.
func FindValue(root *nexus.Group, fallback any, tokens ...string) (any, error) {
	return defaultSearcher().FindValue(root, fallback, tokens...)
}
