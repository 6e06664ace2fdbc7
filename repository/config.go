/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

// Config enables repositories: it selects the lookup strategy and where
// named queries live.
type Config struct {
	QueryLookupStrategy  string `yaml:"queryLookupStrategy"`
	NamedQueriesLocation string `yaml:"namedQueriesLocation"`
}

// DefaultConfig returns CreateIfNotFound lookup without named queries.
func DefaultConfig() Config {
	return Config{QueryLookupStrategy: string(CreateIfNotFound)}
}

// Merge returns c with the non-empty fields of other applied on top.
func (c Config) Merge(other Config) Config {
	if other.QueryLookupStrategy != "" {
		c.QueryLookupStrategy = other.QueryLookupStrategy
	}
	if other.NamedQueriesLocation != "" {
		c.NamedQueriesLocation = other.NamedQueriesLocation
	}
	return c
}

// Validate checks the lookup strategy key.
func (c Config) Validate() error {
	_, err := ParseLookupKey(c.QueryLookupStrategy)
	return err
}

// LookupStrategy builds the strategy the config describes, loading named
// queries when a location is set.
func (c Config) LookupStrategy() (*LookupStrategy, error) {
	key, err := ParseLookupKey(c.QueryLookupStrategy)
	if err != nil {
		return nil, err
	}

	var named NamedQueries
	if c.NamedQueriesLocation != "" {
		named, err = LoadNamedQueries(c.NamedQueriesLocation)
		if err != nil {
			return nil, err
		}
	}
	return NewLookupStrategy(key, named), nil
}
