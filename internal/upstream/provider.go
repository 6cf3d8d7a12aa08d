package upstream

import (
	"math/rand"
	"strconv"
	"strings"
)

// Provider describes one remote tile source. URLTemplate may contain the
// placeholders {m}, {z}, {x} and {y}; {m} is replaced by a mirror letter
// chosen at random per request, purely for load distribution.
type Provider struct {
	URLTemplate string
	Mirrors     []string
}

// DefaultProviders returns the sources the mission planner ships with.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		"TOPO": {
			URLTemplate: "https://{m}.tile.opentopomap.org/{z}/{x}/{y}.png",
			Mirrors:     []string{"a", "b", "c"},
		},
	}
}

// URL resolves the template for one tile.
func (p Provider) URL(z, x, y int) string {
	url := p.URLTemplate
	if len(p.Mirrors) > 0 {
		url = strings.Replace(url, "{m}", p.Mirrors[rand.Intn(len(p.Mirrors))], 1)
	}
	url = strings.Replace(url, "{z}", strconv.Itoa(z), 1)
	url = strings.Replace(url, "{x}", strconv.Itoa(x), 1)
	url = strings.Replace(url, "{y}", strconv.Itoa(y), 1)
	return url
}
