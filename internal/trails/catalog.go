package trails

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	log "github.com/sirupsen/logrus"
)

//go:embed trails.json
var defaultCatalogJSON []byte

// Catalog is the static, read-only description of all trails.
// Loaded once at startup, never mutated at runtime.
type Catalog struct {
	trails []TrailDefinition
	byID   map[int]*TrailDefinition
	byCode map[string]*TrailDefinition
}

// NewCatalog reads trail definitions as JSON and validates each of them.
func NewCatalog(r io.Reader) (*Catalog, error) {
	var defs []TrailDefinition
	if err := json.NewDecoder(r).Decode(&defs); err != nil {
		return nil, fmt.Errorf("decode trails catalog: %w", err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("trails catalog is empty")
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})

	c := &Catalog{
		trails: defs,
		byID:   make(map[int]*TrailDefinition, len(defs)),
		byCode: make(map[string]*TrailDefinition, len(defs)),
	}

	for i := range c.trails {
		t := &c.trails[i]
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid trail definition: %w", err)
		}
		if _, ok := c.byID[t.ID]; ok {
			return nil, fmt.Errorf("duplicate trail id %d", t.ID)
		}
		if _, ok := c.byCode[t.Code]; ok {
			return nil, fmt.Errorf("duplicate trail code %s", t.Code)
		}
		c.byID[t.ID] = t
		c.byCode[t.Code] = t
	}

	log.Debugf("loaded %d trails into catalog", len(c.trails))

	return c, nil
}

// NewDefaultCatalog loads the catalog shipped with the binary.
func NewDefaultCatalog() (*Catalog, error) {
	return NewCatalog(bytes.NewReader(defaultCatalogJSON))
}

// All returns all trail definitions ordered by ID.
func (c *Catalog) All() []TrailDefinition {
	return c.trails
}

func (c *Catalog) Get(id int) (*TrailDefinition, error) {
	t, ok := c.byID[id]
	if !ok {
		return nil, ErrTrailNotFound
	}
	return t, nil
}

func (c *Catalog) GetByCode(code string) (*TrailDefinition, error) {
	t, ok := c.byCode[code]
	if !ok {
		return nil, ErrTrailNotFound
	}
	return t, nil
}
