package entity

import (
	"context"
	"slices"

	"github.com/Aleph-Alpha/datalayer/v1/database"
)

// Preload warms the slot name of every record with the related rows found by
// a single lookup call.
//
// sourceID extracts the id a record relates by, destID the matching id of a
// looked-up row. The distinct positive source ids of records whose slot is not
// yet populated are passed to lookup once, in ascending order; no call is made
// when there are none. Each record's slot then holds its matching rows, or the
// empty state when nothing matched. Populated slots are left as they are.
//
//	// one query for the lines of all orders
//	_, err := entity.Preload(orders, "lines",
//	    func(o *Order) int64 { return o.ID },
//	    func(l *Line) int64 { return l.OrderID },
//	    func(ids []int64) ([]*Line, error) { return lines.FindByOrderIDs(ctx, ids) },
//	)
func Preload[R Cached, D any](records []R, name string, sourceID func(R) int64, destID func(D) int64, lookup func(ids []int64) ([]D, error)) ([]R, error) {
	pending, ids := collect(records, func(R) string { return name }, sourceID)
	if len(pending) == 0 {
		return records, nil
	}

	var found []D
	if len(ids) > 0 {
		var err error
		if found, err = lookup(ids); err != nil {
			return nil, err
		}
	}

	grouped := make(map[int64][]D)
	for _, d := range found {
		id := destID(d)
		grouped[id] = append(grouped[id], d)
	}

	for _, r := range pending {
		cache := r.LazyCache()
		if matches := grouped[sourceID(r)]; len(matches) > 0 {
			cache.set(name, matches)
		} else {
			cache.setEmpty(name)
		}
	}
	return records, nil
}

// PreloadTable warms, for every record, the slot LazyLoadByID reads for the
// row sourceID(record) of table, using one FindByIDs query.
func PreloadTable[R Cached, E Record](ctx context.Context, records []R, table *Table[E], sourceID func(R) int64) ([]R, error) {
	key := func(r R) string { return RelationKey(table.Name, sourceID(r)) }
	pending, ids := collect(records, key, sourceID)
	if len(pending) == 0 {
		return records, nil
	}

	var found []E
	if len(ids) > 0 {
		var err error
		if found, err = table.FindByIDs(ctx, ids, database.ReadWrite); err != nil {
			return nil, err
		}
	}

	byID := make(map[int64]E, len(found))
	for _, e := range found {
		byID[e.EntityID()] = e
	}

	for _, r := range pending {
		cache := r.LazyCache()
		if e, ok := byID[sourceID(r)]; ok {
			cache.set(key(r), e)
		} else {
			cache.setEmpty(key(r))
		}
	}
	return records, nil
}

// collect returns the records whose slot is not populated and the sorted,
// distinct positive ids they reference.
func collect[R Cached](records []R, key func(R) string, sourceID func(R) int64) ([]R, []int64) {
	var pending []R
	seen := make(map[int64]struct{})
	var ids []int64
	for _, r := range records {
		if r.LazyCache().Populated(key(r)) {
			continue
		}
		pending = append(pending, r)

		id := sourceID(r)
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return pending, ids
}
