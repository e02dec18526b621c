package findash

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed metric_catalog.json
var metricCatalogJSON []byte

// Unit is the display unit of a metric
type Unit string

const (
	UnitUSD        Unit = "usd"
	UnitShares     Unit = "shares"
	UnitPercentage Unit = "percentage"
	UnitCount      Unit = "count"
)

// Valid reports whether u is one of the known units
func (u Unit) Valid() bool {
	switch u {
	case UnitUSD, UnitShares, UnitPercentage, UnitCount:
		return true
	}
	return false
}

// MetricDefinition maps a short metric key to the statement concepts that report it
type MetricDefinition struct {
	Key              string   `json:"key"`
	Label            string   `json:"label"`
	Unit             Unit     `json:"unit"`
	PrimaryConcept   string   `json:"primaryConcept"`
	FallbackConcepts []string `json:"fallbackConcepts"`
}

// Concepts returns the primary concept followed by the fallbacks, in lookup order
func (d MetricDefinition) Concepts() []string {
	concepts := make([]string, 0, 1+len(d.FallbackConcepts))
	concepts = append(concepts, d.PrimaryConcept)
	return append(concepts, d.FallbackConcepts...)
}

// catalogFile represents the structure of metric_catalog.json
type catalogFile struct {
	Description string             `json:"description"`
	Version     string             `json:"version"`
	Metrics     []MetricDefinition `json:"metrics"`
}

// Catalog is the fixed, ordered registry of dashboard metrics.
// It is never mutated after construction.
type Catalog struct {
	version       string
	definitions   []MetricDefinition
	byKey         map[string]int    // metric key -> index into definitions
	reverseLookup map[string]string // concept -> metric key
	foldedLookup  map[string]string // lowercased concept -> metric key
}

var defaultCatalog *Catalog

func init() {
	var err error
	defaultCatalog, err = ParseCatalog(metricCatalogJSON)
	if err != nil {
		panic(fmt.Sprintf("Failed to load metric catalog: %v", err))
	}
}

// DefaultCatalog returns the catalog embedded in the binary
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// ParseCatalog parses a catalog document and builds its lookup tables
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse metric catalog: %w", err)
	}
	return NewCatalog(file.Version, file.Metrics...)
}

// NewCatalog builds a catalog from definitions, preserving their order
func NewCatalog(version string, defs ...MetricDefinition) (*Catalog, error) {
	c := &Catalog{
		version:       version,
		definitions:   make([]MetricDefinition, 0, len(defs)),
		byKey:         make(map[string]int, len(defs)),
		reverseLookup: make(map[string]string),
		foldedLookup:  make(map[string]string),
	}

	for _, def := range defs {
		if def.Key == "" {
			return nil, fmt.Errorf("metric definition without key")
		}
		if _, dup := c.byKey[def.Key]; dup {
			return nil, fmt.Errorf("duplicate metric key: %s", def.Key)
		}
		if def.Key == "year" || def.Key == "quarter" {
			return nil, fmt.Errorf("reserved metric key: %s", def.Key)
		}
		if def.PrimaryConcept == "" {
			return nil, fmt.Errorf("metric %s has no primary concept", def.Key)
		}
		if !def.Unit.Valid() {
			return nil, fmt.Errorf("metric %s has unknown unit %q", def.Key, def.Unit)
		}

		def.FallbackConcepts = append([]string(nil), def.FallbackConcepts...)
		c.byKey[def.Key] = len(c.definitions)
		c.definitions = append(c.definitions, def)

		// First metric to claim a concept keeps it
		for _, concept := range def.Concepts() {
			if _, taken := c.reverseLookup[concept]; !taken {
				c.reverseLookup[concept] = def.Key
			}
			folded := strings.ToLower(concept)
			if _, taken := c.foldedLookup[folded]; !taken {
				c.foldedLookup[folded] = def.Key
			}
		}
	}

	return c, nil
}

// Version returns the catalog document version
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of metrics
func (c *Catalog) Len() int {
	return len(c.definitions)
}

// Definitions returns a copy of the definitions in catalog order
func (c *Catalog) Definitions() []MetricDefinition {
	out := make([]MetricDefinition, len(c.definitions))
	copy(out, c.definitions)
	return out
}

// Keys returns the metric keys in catalog order
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.definitions))
	for i, def := range c.definitions {
		keys[i] = def.Key
	}
	return keys
}

// Lookup returns the definition for a metric key
func (c *Catalog) Lookup(key string) (MetricDefinition, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return MetricDefinition{}, false
	}
	return c.definitions[i], true
}

// Has reports whether key is a cataloged metric
func (c *Catalog) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// MetricForConcept returns the metric key that reads a concept, or "" if none does.
func (c *Catalog) MetricForConcept(concept string) string {
	if key, ok := c.reverseLookup[concept]; ok {
		return key
	}

	// Filers are not consistent about capitalization
	return c.foldedLookup[strings.ToLower(concept)]
}

// ValidateKeys returns ErrUnknownMetric for the first key the catalog does not know
func (c *Catalog) ValidateKeys(keys []string) error {
	for _, key := range keys {
		if !c.Has(key) {
			return fmt.Errorf("%w: %s", ErrUnknownMetric, key)
		}
	}
	return nil
}
