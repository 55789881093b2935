// Package query translates list query strings into MongoDB filter, sort,
// projection and pagination documents.
//
// Supported syntax:
//
//	?difficulty=easy&price[lt]=1500      filter, operators gte gt lte lt
//	?sort=-ratingsAverage,price          sort, "-" means descending
//	?fields=name,price                   projection, "-name" excludes
//	?page=2&limit=10                     pagination
package query

import (
	"context"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "tours-api/internal/errors"
)

// Kind is the type a filter value is cast to.
type Kind int

const (
	String Kind = iota
	Number
	Integer
	Bool
	Date
	ObjectID
)

// Schema lists the fields a collection can be filtered on.
type Schema map[string]Kind

// Counter counts documents matching a filter.
type Counter interface {
	Count(ctx context.Context, filter bson.M) (int64, error)
}

const (
	DefaultSort  = "-createdAt"
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// versionField is never returned unless explicitly asked for.
	versionField = "__v"
)

var reservedKeys = map[string]bool{"page": true, "sort": true, "limit": true, "fields": true}

var (
	filterKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)(?:\[([a-z]+)\])?$`)
	fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

var operators = map[string]string{"gte": "$gte", "gt": "$gt", "lte": "$lte", "lt": "$lt"}

// Features accumulates the query descriptor for one list request. Each stage
// is independent; ValidatePage must run after the filter is complete.
type Features struct {
	params url.Values
	schema Schema

	filter     bson.M
	where      []bson.M
	sort       bson.D
	projection bson.M
	fields     []string
	exclude    bool

	page          int64
	limit         int64
	pageRequested bool

	err error
}

// New builds a translator. A non-nil alias replaces the raw query entirely.
func New(raw, alias url.Values, schema Schema) *Features {
	params := raw
	if alias != nil {
		params = alias
	}
	if params == nil {
		params = url.Values{}
	}
	return &Features{
		params: params,
		schema: schema,
		filter: bson.M{},
		page:   DefaultPage,
		limit:  DefaultLimit,
	}
}

// last returns the final value for key, so repeated reserved params do not
// turn into arrays.
func (f *Features) last(key string) (string, bool) {
	vals, ok := f.params[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

func (f *Features) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// Filter turns the remaining params into a filter document. Unknown fields
// and keys carrying operators are dropped.
func (f *Features) Filter() *Features {
	for key, vals := range f.params {
		if reservedKeys[key] || len(vals) == 0 || strings.Contains(key, "$") {
			continue
		}
		m := filterKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		field, op := m[1], m[2]
		kind, known := f.schema[field]
		if !known {
			continue
		}

		if op == "" {
			f.addEquality(field, kind, vals)
			continue
		}

		mongoOp, ok := operators[op]
		if !ok {
			continue
		}
		v, err := cast(field, kind, vals[len(vals)-1])
		if err != nil {
			f.fail(err)
			continue
		}
		cond, isCond := f.filter[field].(bson.M)
		if !isCond {
			cond = bson.M{}
			if eq, has := f.filter[field]; has {
				cond["$eq"] = eq
			}
		}
		cond[mongoOp] = v
		f.filter[field] = cond
	}
	return f
}

func (f *Features) addEquality(field string, kind Kind, vals []string) {
	conv := func(s string) (interface{}, bool) {
		v, err := cast(field, kind, s)
		if err != nil {
			f.fail(err)
			return nil, false
		}
		return v, true
	}

	if len(vals) == 1 {
		if v, ok := conv(vals[0]); ok {
			f.setEquality(field, v)
		}
		return
	}

	in := make(bson.A, 0, len(vals))
	for _, s := range vals {
		v, ok := conv(s)
		if !ok {
			return
		}
		in = append(in, v)
	}
	f.setEquality(field, bson.M{"$in": in})
}

// setEquality keeps range operators already collected for the field.
func (f *Features) setEquality(field string, v interface{}) {
	if cond, ok := f.filter[field].(bson.M); ok {
		if in, isIn := v.(bson.M); isIn {
			cond["$in"] = in["$in"]
		} else {
			cond["$eq"] = v
		}
		return
	}
	f.filter[field] = v
}

func cast(field string, kind Kind, s string) (interface{}, error) {
	switch kind {
	case Number:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, apperrors.InvalidValue(field, s)
		}
		return v, nil
	case Integer:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, apperrors.InvalidValue(field, s)
		}
		return v, nil
	case Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, apperrors.InvalidValue(field, s)
		}
		return v, nil
	case Date:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, apperrors.InvalidValue(field, s)
	case ObjectID:
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperrors.InvalidID(s)
		}
		return oid, nil
	default:
		return s, nil
	}
}

// Where adds a server-side predicate. It is combined with the client filter
// through $and, so the client cannot widen it.
func (f *Features) Where(cond bson.M) *Features {
	if len(cond) > 0 {
		f.where = append(f.where, cond)
	}
	return f
}

// Sort parses a comma separated list; "-" prefixes mean descending.
func (f *Features) Sort() *Features {
	raw, ok := f.last("sort")
	if !ok || strings.TrimSpace(raw) == "" {
		raw = DefaultSort
	}

	sort := bson.D{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		order := 1
		if strings.HasPrefix(part, "-") {
			order = -1
			part = part[1:]
		}
		if part == "" {
			continue
		}
		if !fieldName.MatchString(part) {
			f.fail(apperrors.InvalidValue("sort", part))
			continue
		}
		sort = append(sort, bson.E{Key: part, Value: order})
	}
	f.sort = sort
	return f
}

// LimitFields builds the projection. Without fields the version field is hidden.
func (f *Features) LimitFields() *Features {
	raw, ok := f.last("fields")
	if !ok || strings.TrimSpace(raw) == "" {
		f.projection = bson.M{versionField: 0}
		f.fields = nil
		f.exclude = false
		return f
	}

	projection := bson.M{}
	var fields []string
	included, excluded := 0, 0
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		value := 1
		if strings.HasPrefix(part, "-") {
			value = 0
			part = part[1:]
		}
		if part == "" {
			continue
		}
		if !fieldName.MatchString(part) {
			f.fail(apperrors.InvalidValue("fields", part))
			continue
		}
		if value == 1 {
			included++
		} else {
			excluded++
		}
		projection[part] = value
		fields = append(fields, part)
	}
	if included > 0 && excluded > 0 {
		f.fail(apperrors.InvalidValue("fields", raw))
		return f
	}
	if len(projection) == 0 {
		projection[versionField] = 0
	}

	f.projection = projection
	f.fields = fields
	f.exclude = excluded > 0
	return f
}

// Paginate reads page and limit. Missing, non-numeric or non-positive values
// fall back to the defaults.
func (f *Features) Paginate() *Features {
	page := positive(f.last("page"))
	if page == 0 {
		page = DefaultPage
	}
	limit := positive(f.last("limit"))
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	raw, ok := f.last("page")
	f.pageRequested = ok && strings.TrimSpace(raw) != ""
	f.page, f.limit = page, limit

	// No document can sit that far out, and the skip would overflow.
	if page-1 > math.MaxInt64/limit {
		f.fail(apperrors.ErrPageNotFound)
	}
	return f
}

func positive(s string, ok bool) int64 {
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// ValidatePage fails when an explicitly requested page starts past the last
// matching document. It must run after every Filter and Where call.
func (f *Features) ValidatePage(ctx context.Context, c Counter) error {
	if f.err != nil {
		return f.err
	}
	if !f.pageRequested {
		return nil
	}
	count, err := c.Count(ctx, f.FilterDoc())
	if err != nil {
		return err
	}
	if f.Skip() >= count {
		return apperrors.ErrPageNotFound
	}
	return nil
}

// Err returns the first parse failure of any stage.
func (f *Features) Err() error {
	return f.err
}

// FilterDoc returns the client filter combined with every Where predicate.
func (f *Features) FilterDoc() bson.M {
	if len(f.where) == 0 {
		return f.filter
	}
	and := bson.A{}
	if len(f.filter) > 0 {
		and = append(and, f.filter)
	}
	for _, w := range f.where {
		and = append(and, w)
	}
	if len(and) == 1 {
		return and[0].(bson.M)
	}
	return bson.M{"$and": and}
}

// SortDoc returns the sort document, defaulting to newest first.
func (f *Features) SortDoc() bson.D {
	if f.sort == nil {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return f.sort
}

// Projection returns the projection document.
func (f *Features) Projection() bson.M {
	if f.projection == nil {
		return bson.M{versionField: 0}
	}
	return f.projection
}

func (f *Features) Skip() int64  { return (f.page - 1) * f.limit }
func (f *Features) Limit() int64 { return f.limit }
func (f *Features) Page() int64  { return f.page }

// FindOptions bundles sort, projection, skip and limit.
func (f *Features) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(f.SortDoc()).
		SetProjection(f.Projection()).
		SetSkip(f.Skip()).
		SetLimit(f.Limit())
}
