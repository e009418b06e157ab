package repository

import (
	"net/url"
	"testing"

	"BootcampAPI/internal/query"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFilterDoc(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		base   bson.M
		want   bson.M
	}{
		{
			name:   "equality",
			params: url.Values{"housing": {"true"}},
			want:   bson.M{"housing": true},
		},
		{
			name:   "greater-or-equal renders a mongo operator",
			params: url.Values{"price[gte]": {"100"}},
			want:   bson.M{"price": bson.M{"$gte": int64(100)}},
		},
		{
			name:   "two comparisons on one field share an operator document",
			params: url.Values{"tuition[gte]": {"5000"}, "tuition[lt]": {"20000"}},
			want:   bson.M{"tuition": bson.M{"$gte": int64(5000), "$lt": int64(20000)}},
		},
		{
			name:   "set membership",
			params: url.Values{"careers[in]": {"Business,UI/UX"}},
			want:   bson.M{"careers": bson.M{"$in": []any{"Business", "UI/UX"}}},
		},
		{
			name:   "base conditions survive alongside filters",
			params: url.Values{"weeks[lte]": {"12"}},
			base:   bson.M{"bootcamp": "abc"},
			want:   bson.M{"bootcamp": "abc", "weeks": bson.M{"$lte": int64(12)}},
		},
		{
			name:   "reserved directives produce no conditions",
			params: url.Values{"sort": {"-name"}, "page": {"2"}, "limit": {"5"}, "select": {"name"}},
			want:   bson.M{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := tt.base
			if base == nil {
				base = bson.M{}
			}
			got := filterDoc(query.Parse(tt.params), base)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterDoc_EqualityAndComparisonMergeInEitherOrder(t *testing.T) {
	want := bson.M{"price": bson.M{"$eq": int64(5), "$gt": int64(3)}}

	eqFirst := filterDoc(query.Descriptor{Filters: []query.Filter{
		{Field: "price", Op: query.OpEq, Value: int64(5)},
		{Field: "price", Op: query.OpGt, Value: int64(3)},
	}}, bson.M{})
	gtFirst := filterDoc(query.Descriptor{Filters: []query.Filter{
		{Field: "price", Op: query.OpGt, Value: int64(3)},
		{Field: "price", Op: query.OpEq, Value: int64(5)},
	}}, bson.M{})

	assert.Equal(t, want, eqFirst)
	assert.Equal(t, want, gtFirst)
}

func TestSortDoc(t *testing.T) {
	got := sortDoc([]query.SortKey{
		{Field: "name", Desc: true},
		{Field: "createdAt"},
	})

	assert.Equal(t, bson.D{
		{Key: "name", Value: -1},
		{Key: "createdAt", Value: 1},
	}, got)
}

func TestProjectionDoc_NeverIncludesPassword(t *testing.T) {
	got := projectionDoc([]string{"name", "email", "password"})

	assert.Equal(t, bson.M{"name": 1, "email": 1}, got)
}

func TestProjectionDoc_PasswordOnlySelectFallsBackToExclusion(t *testing.T) {
	got := projectionDoc([]string{"password"})

	assert.Equal(t, bson.M{"password": 0}, got)
}
