package repository

import (
	"context"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/query"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ListResult is one page of records plus the metadata every list endpoint
// reports.
type ListResult[T any] struct {
	Items      []T
	Total      int64
	Pagination query.Pagination
}

// FindPage executes a query.Descriptor against a collection: filter, count,
// window, projection, and sort. It is the single list implementation shared
// by every resource; nothing here is resource-specific.
func FindPage[T any](ctx context.Context, coll *mongo.Collection, d query.Descriptor, base bson.M) (*ListResult[T], error) {
	filter := filterDoc(d, base)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	skip, pagination := query.Paginate(total, d.Page, d.Limit)

	opts := options.Find().
		SetSkip(skip).
		SetLimit(d.Limit).
		SetSort(sortDoc(d.Sort))
	if len(d.Select) > 0 {
		opts = opts.SetProjection(projectionDoc(d.Select))
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &ListResult[T]{Items: items, Total: total, Pagination: pagination}, nil
}

// filterDoc renders the typed filters into a Mongo filter document, merged
// over the caller's base conditions. Multiple comparisons on one field
// combine into a single operator document (price[gte]=X&price[lt]=Y).
func filterDoc(d query.Descriptor, base bson.M) bson.M {
	out := bson.M{}
	for k, v := range base {
		out[k] = v
	}
	for _, f := range d.Filters {
		switch f.Op {
		case query.OpEq:
			if ops, ok := out[f.Field].(bson.M); ok {
				ops["$eq"] = f.Value
			} else {
				out[f.Field] = f.Value
			}
		case query.OpIn:
			out[f.Field] = mergeOp(out, f.Field, "$in", f.Values)
		default:
			out[f.Field] = mergeOp(out, f.Field, "$"+string(f.Op), f.Value)
		}
	}
	return out
}

// mergeOp folds an operator into the field's operator document, lifting a
// previously set equality into $eq so mixed conditions on one field keep a
// stable rendering whatever order the parameters arrive in.
func mergeOp(out bson.M, field, op string, value any) bson.M {
	ops, ok := out[field].(bson.M)
	if !ok {
		ops = bson.M{}
		if prev, exists := out[field]; exists {
			ops["$eq"] = prev
		}
	}
	ops[op] = value
	return ops
}

func sortDoc(keys []query.SortKey) bson.D {
	sort := bson.D{}
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: k.Field, Value: dir})
	}
	return sort
}

func projectionDoc(fields []string) bson.M {
	proj := bson.M{}
	for _, f := range fields {
		proj[f] = 1
	}
	// The stored secret never rides along on a projected read either.
	delete(proj, "password")
	if len(proj) == 0 {
		return bson.M{"password": 0}
	}
	return proj
}
