package db

import (
	"sync"

	"school_library/models"

	"gorm.io/gorm"
)

// Store names accepted by the schema probe.
const (
	StoreLoans        = "loans"
	StoreVirtualReads = "virtual_reads"
)

// validationColumn marks whether the reading-validation migration has run
// for a store. Presence of this column implies the rest of the set.
const validationColumn = "validated_at"

// SchemaProbe answers whether a store's live schema carries the
// reading-validation columns. Those columns land via a migration that may
// not have run yet on a given deployment; read paths must keep working
// without them. Results are cached per process per store name, and any
// inspection failure degrades to false rather than surfacing an error.
type SchemaProbe struct {
	db    *gorm.DB
	mu    sync.Mutex
	cache map[string]bool
}

func NewSchemaProbe(db *gorm.DB) *SchemaProbe {
	return &SchemaProbe{db: db, cache: make(map[string]bool)}
}

func (p *SchemaProbe) SupportsValidation(store string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.cache[store]; ok {
		return v
	}
	v := p.inspect(store)
	p.cache[store] = v
	return v
}

func (p *SchemaProbe) inspect(store string) (supported bool) {
	defer func() {
		if r := recover(); r != nil {
			supported = false
		}
	}()
	var model any
	switch store {
	case StoreLoans:
		model = &models.Loan{}
	case StoreVirtualReads:
		model = &models.VirtualRead{}
	default:
		return false
	}
	return p.db.Migrator().HasColumn(model, validationColumn)
}
