package importer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/scstore/catalog/internal/domain"
)

const (
	maxNameAttempts = 100
	minPrice        = 1000
	priceSpan       = 99000
	maxStock        = 1000
)

var generatedNames = []string{
	"Dell PowerEdge R750",
	"Dell PowerEdge R650",
	"HPE ProLiant DL380",
	"HPE ProLiant DL360",
	"Lenovo ThinkSystem SR650",
	"Lenovo ThinkSystem SR630",
	"Supermicro SuperServer 1029P",
	"Cisco UCS C240 M6",
	"Cisco UCS C220 M6",
	"Fujitsu Primergy RX2540",
	"NetApp AFF A400",
	"Pure Storage FlashArray X70",
	"Synology RackStation RS3621",
	"QNAP ES2486dc",
	"Juniper QFX5120 Switch",
	"Arista 7050X3 Switch",
	"Fortinet FortiGate 600F",
	"Palo Alto PA-3440",
	"APC Smart-UPS SRT 5000",
	"Vertiv Liebert GXT5",
}

var generatedDescriptions = []string{
	"Enterprise-grade hardware for demanding workloads",
	"Rack-mountable unit with redundant power supplies",
	"Optimized for virtualization and cloud deployments",
	"High-density configuration with remote management",
	"Certified for continuous datacenter operation",
}

// Generator produces synthetic products for load and demo imports. The
// random source is injectable so tests can seed it and assert exact output.
type Generator struct {
	rand *rand.Rand
}

func NewGenerator(r *rand.Rand) *Generator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rand: r}
}

// Generate builds count products spread uniformly over the given category
// ids. Names get a numeric suffix and are kept unique within the run on a
// best-effort basis; after maxNameAttempts collisions the duplicate is kept.
func (g *Generator) Generate(count int, categoryIDs []int) ([]domain.Product, error) {
	if len(categoryIDs) == 0 {
		return nil, fmt.Errorf("%w: no categories available for product generation", domain.ErrValidation)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: generation count cannot be negative", domain.ErrValidation)
	}

	products := make([]domain.Product, 0, count)
	usedNames := make(map[string]struct{}, count)

	for i := 0; i < count; i++ {
		name := g.uniqueName(usedNames)
		usedNames[name] = struct{}{}

		description := generatedDescriptions[g.rand.Intn(len(generatedDescriptions))]
		price := decimal.NewFromFloat(minPrice + g.rand.Float64()*priceSpan).Round(2)

		products = append(products, domain.Product{
			Name:        name,
			Description: &description,
			Price:       price,
			Stock:       g.rand.Intn(maxStock),
			CategoryID:  categoryIDs[g.rand.Intn(len(categoryIDs))],
		})
	}

	return products, nil
}

func (g *Generator) uniqueName(used map[string]struct{}) string {
	var name string
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		base := generatedNames[g.rand.Intn(len(generatedNames))]
		name = fmt.Sprintf("%s #%04d", base, g.rand.Intn(10000))
		if _, taken := used[name]; !taken {
			return name
		}
	}
	return name
}
