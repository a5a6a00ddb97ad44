package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/Aleph-Alpha/datalayer/v1/database"
)

// Entity is embedded by records that have a numeric id. It carries the
// record's LazyCache.
//
//	type Order struct {
//	    entity.Entity
//	    entity.Timestamps
//	    CustomerID int64
//	}
type Entity struct {
	ID int64

	cache LazyCache
}

// LazyCache implements Cached.
func (e *Entity) LazyCache() *LazyCache {
	return &e.cache
}

// EntityID returns the record id.
func (e *Entity) EntityID() int64 {
	return e.ID
}

// Record is a cached record with an id.
type Record interface {
	Cached
	EntityID() int64
}

// Timestamps holds the optional creation and modification times of a record.
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IDs returns the ids of records in order.
func IDs[R Record](records []R) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.EntityID()
	}
	return ids
}

// RelationKey is the LazyCache key under which the row id of table is kept.
func RelationKey(table string, id int64) string {
	return fmt.Sprintf("%s#%d", table, id)
}

// LazyLoadByID loads the row id of table into record's cache. Non-positive ids
// are cached as empty without a query.
func LazyLoadByID[E any](ctx context.Context, record Cached, table *Table[E], id int64) (E, bool, error) {
	return LazyLoad(record, RelationKey(table.Name, id), func() (E, bool, error) {
		return table.FindByID(ctx, id, database.ReadWrite)
	})
}
