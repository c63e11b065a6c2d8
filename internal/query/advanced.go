// Package query translates HTTP query strings into filtered, sorted,
// paginated MongoDB queries and produces the standard list envelope
// {success, count, pagination, data}.
package query

import (
	"context"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 25
)

// comparisonOps maps the operator tokens accepted in field[op]=value keys to
// their store-native form. Only listed tokens are rewritten; anything else in
// brackets is ignored rather than passed through to the store, so the raw
// query string never reaches the filter unchecked.
var comparisonOps = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// reserved keys control projection, ordering and pagination and are stripped
// before filter construction.
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Params is the parsed form of a list request's query string.
type Params struct {
	Filter     bson.M
	Projection bson.M
	Sort       bson.D
	Page       int64
	Limit      int64
}

func (p Params) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// Parse builds Params from a flat query-string map (fiber's c.Queries()).
//
// Remaining keys become equality filters, or comparison filters when written
// as field[op]=value with op in {gt,gte,lt,lte,in}. "in" splits its value on
// commas. Values that look numeric or boolean are coerced so comparisons work
// against typed fields; bare equality additionally matches the raw string
// form, since the store cannot cast a number against a string-typed field.
func Parse(raw map[string]string) Params {
	p := Params{
		Filter: bson.M{},
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}

	for key, value := range raw {
		if reserved[key] {
			continue
		}
		field, op, ok := splitOperator(key)
		if !ok {
			continue
		}
		if op == "" {
			p.Filter[field] = equalityValue(value)
			continue
		}

		var in interface{}
		if op == "$in" {
			parts := strings.Split(value, ",")
			list := make([]interface{}, 0, len(parts))
			for _, part := range parts {
				list = append(list, coerce(part))
			}
			in = list
		} else {
			in = coerce(value)
		}

		// Merge so price[gte]=100&price[lte]=200 lands on one field.
		if existing, ok := p.Filter[field].(bson.M); ok {
			existing[op] = in
		} else {
			p.Filter[field] = bson.M{op: in}
		}
	}

	if sel := raw["select"]; sel != "" {
		p.Projection = bson.M{}
		for _, field := range strings.Split(sel, ",") {
			if field = strings.TrimSpace(field); field != "" {
				p.Projection[field] = 1
			}
		}
	}

	p.Sort = parseSort(raw["sort"])

	if page, err := strconv.ParseInt(raw["page"], 10, 64); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.ParseInt(raw["limit"], 10, 64); err == nil && limit > 0 {
		p.Limit = limit
	}

	return p
}

// splitOperator separates "field[op]" into its parts. A bare key is an
// equality filter. Unknown operator tokens or malformed keys are rejected.
func splitOperator(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if key == "" {
			return "", "", false
		}
		return key, "", true
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", false
	}
	token, ok := comparisonOps[key[open+1:len(key)-1]]
	if !ok {
		return "", "", false
	}
	return key[:open], token, true
}

// parseSort turns a comma-separated field list (leading '-' = descending)
// into a sort document. Absent -> newest first.
func parseSort(raw string) bson.D {
	if raw == "" {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	sort := bson.D{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == "-" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		sort = append(sort, bson.E{Key: field, Value: dir})
	}
	if len(sort) == 0 {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return sort
}

// equalityValue builds the match for a bare field=value filter. Coercible
// values match both their typed and raw forms, so a digit string stored as a
// string (zipcode, phone) still hits while numeric fields keep working.
func equalityValue(s string) interface{} {
	c := coerce(s)
	if _, isString := c.(string); isString {
		return c
	}
	return bson.M{"$in": []interface{}{c, s}}
}

func coerce(s string) interface{} {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// PageInfo describes one side of the pagination window.
type PageInfo struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

type Pagination struct {
	Next *PageInfo `json:"next,omitempty"`
	Prev *PageInfo `json:"prev,omitempty"`
}

// Result is the list response envelope.
type Result struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Pagination Pagination  `json:"pagination"`
	Data       interface{} `json:"data"`
}

// Populate eagerly loads a named relation into the returned page.
type Populate func(ctx context.Context, docs []bson.M) error

// Run executes the parsed query against a collection.
//
// The pagination total deliberately counts the whole collection, not the
// filtered set: next/prev describe position in the full dataset while the
// filter applies only to the returned page. See DESIGN.md.
func Run(ctx context.Context, coll *mongo.Collection, p Params, populate Populate) (*Result, error) {
	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	findOpts := options.Find().
		SetSort(p.Sort).
		SetSkip(p.Skip()).
		SetLimit(p.Limit)
	if p.Projection != nil {
		findOpts.SetProjection(p.Projection)
	}

	cursor, err := coll.Find(ctx, p.Filter, findOpts)
	if err != nil {
		return nil, err
	}

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	if populate != nil {
		if err := populate(ctx, docs); err != nil {
			return nil, err
		}
	}

	return &Result{
		Success:    true,
		Count:      len(docs),
		Pagination: Paginate(p.Page, p.Limit, total),
		Data:       docs,
	}, nil
}

// Paginate computes the next/prev descriptors; each side is present only when
// further pages exist there.
func Paginate(page, limit, total int64) Pagination {
	var pg Pagination
	if page*limit < total {
		pg.Next = &PageInfo{Page: page + 1, Limit: limit}
	}
	if (page-1)*limit > 0 {
		pg.Prev = &PageInfo{Page: page - 1, Limit: limit}
	}
	return pg
}
