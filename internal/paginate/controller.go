// Package paginate implements the pagination controller: a small state
// machine that decides, after each processed page, which layout generation
// applies next and when the crawl stops. It owns the page budget, replacing
// the implicit counter-plus-recursion control flow with a first-class,
// network-free testable state.
package paginate

// Layout identifies which markup generation to expect on the next page.
type Layout int

const (
	// LayoutLanding is the markup generation of the first search page.
	LayoutLanding Layout = iota
	// LayoutResults is the markup generation of every subsequent page.
	LayoutResults
)

// String returns a diagnostic name for the layout.
func (l Layout) String() string {
	if l == LayoutLanding {
		return "landing"
	}
	return "results"
}

// State is the controller's position in its lifecycle. Exhausted and Capped
// are both terminal success states; they differ only for diagnostics.
type State int

const (
	// StateStart means no page has been processed yet.
	StateStart State = iota
	// StateFollowing means at least one page was processed and a next-page
	// link is being followed.
	StateFollowing
	// StateExhausted means the last page carried no next-page link.
	StateExhausted
	// StateCapped means the page budget was reached with more pages
	// available.
	StateCapped
)

// String returns a diagnostic name for the state.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateFollowing:
		return "following"
	case StateExhausted:
		return "exhausted"
	default:
		return "capped"
	}
}

// DefaultMaxPages is the page budget applied when none is configured.
const DefaultMaxPages = 20

// Controller tracks pages visited against the budget and selects the layout
// generation for the next page. It is owned by a single crawl run and is not
// safe for concurrent use; the crawl loop is strictly sequential.
type Controller struct {
	maxPages int
	visited  int
	state    State
}

// NewController creates a Controller with the given page budget. A budget of
// zero or less falls back to DefaultMaxPages.
func NewController(maxPages int) *Controller {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Controller{maxPages: maxPages, state: StateStart}
}

// Layout returns the markup generation expected on the page about to be
// processed: the landing layout for the first page, the results layout for
// every page after it.
func (c *Controller) Layout() Layout {
	if c.state == StateStart {
		return LayoutLanding
	}
	return LayoutResults
}

// Advance records one processed page and evaluates its next-page link.
// It returns true when the crawl should continue. The page budget is a hard
// ceiling: once visited pages reach it the controller stops even if more
// pages exist.
func (c *Controller) Advance(nextURL string) bool {
	c.visited++
	switch {
	case nextURL == "":
		c.state = StateExhausted
	case c.visited >= c.maxPages:
		c.state = StateCapped
	default:
		c.state = StateFollowing
	}
	return c.state == StateFollowing
}

// Done reports whether the controller reached a terminal state.
func (c *Controller) Done() bool {
	return c.state == StateExhausted || c.state == StateCapped
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// PagesVisited returns how many pages have been processed so far.
func (c *Controller) PagesVisited() int {
	return c.visited
}
