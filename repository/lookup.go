/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"fmt"
	"os"
	"strings"

	"github.com/suparena/mapstore/errors"
	"gopkg.in/yaml.v3"
)

// LookupKey selects how query methods are resolved.
type LookupKey string

const (
	// CreateIfNotFound uses a declared query when there is one and derives
	// the query from the method name otherwise.
	CreateIfNotFound LookupKey = "CREATE_IF_NOT_FOUND"
	// Create derives the query from the method name unless the method
	// declares its own query. Named queries are not consulted.
	Create LookupKey = "CREATE"
	// UseDeclaredQuery requires a declared query.
	UseDeclaredQuery LookupKey = "USE_DECLARED_QUERY"
)

// ParseLookupKey accepts the key in any case, with '-' or '_' separators.
// An empty string is CreateIfNotFound.
func ParseLookupKey(s string) (LookupKey, error) {
	if s == "" {
		return CreateIfNotFound, nil
	}
	key := LookupKey(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	switch key {
	case CreateIfNotFound, Create, UseDeclaredQuery:
		return key, nil
	}
	return "", errors.NewValidationError("queryLookupStrategy", fmt.Sprintf("unknown lookup strategy %q", s))
}

// NamedQueries maps method names to declared queries. Keys are either
// "keyspace.method" or a bare method name shared by all keyspaces.
type NamedQueries map[string]string

// ParseNamedQueries reads named queries from YAML:
//
//	users.findAdults: "age >= ?"
//	findByStatus: "status = ?"
func ParseNamedQueries(data []byte) (NamedQueries, error) {
	queries := NamedQueries{}
	if err := yaml.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("failed to parse named queries: %w", err)
	}
	return queries, nil
}

// LoadNamedQueries reads named queries from a YAML file.
func LoadNamedQueries(path string) (NamedQueries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read named queries %s: %w", path, err)
	}
	return ParseNamedQueries(data)
}

// Lookup returns the query declared for method, preferring the keyspace
// qualified name.
func (n NamedQueries) Lookup(keyspace, method string) (string, bool) {
	if q, ok := n[keyspace+"."+method]; ok {
		return q, true
	}
	q, ok := n[method]
	return q, ok
}

// LookupStrategy resolves query methods into RepositoryQuery values.
type LookupStrategy struct {
	key   LookupKey
	named NamedQueries
}

// NewLookupStrategy creates a strategy. An empty key is CreateIfNotFound.
func NewLookupStrategy(key LookupKey, named NamedQueries) *LookupStrategy {
	if key == "" {
		key = CreateIfNotFound
	}
	return &LookupStrategy{key: key, named: named}
}

func (s *LookupStrategy) Key() LookupKey { return s.key }

// Resolve returns the query for method in keyspace. The query declared on the
// method wins over a named query.
func (s *LookupStrategy) Resolve(keyspace string, method Method) (RepositoryQuery, error) {
	declared := method
	if declared.Query == "" {
		if q, ok := s.named.Lookup(keyspace, method.Name); ok {
			declared.Query = q
		}
	}

	switch s.key {
	case Create:
		if method.Query != "" {
			return NewStringQuery(method)
		}
		return NewPartTreeQuery(method)
	case UseDeclaredQuery:
		if declared.Query == "" {
			return nil, errors.NewValidationError("method", fmt.Sprintf("no declared query for %s.%s", keyspace, method.Name))
		}
		return NewStringQuery(declared)
	default:
		if declared.Query != "" {
			return NewStringQuery(declared)
		}
		return NewPartTreeQuery(method)
	}
}
