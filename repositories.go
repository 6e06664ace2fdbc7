/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapstore

import (
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/mapstore/errors"
	"github.com/suparena/mapstore/repository"
)

// TypedRepositories holds the repositories of one entity and id type by keyspace.
type TypedRepositories[T any, ID comparable] struct {
	mu    sync.RWMutex
	repos map[string]repository.Repository[T, ID]
}

// NewTypedRepositories creates an empty TypedRepositories.
func NewTypedRepositories[T any, ID comparable]() *TypedRepositories[T, ID] {
	return &TypedRepositories[T, ID]{
		repos: make(map[string]repository.Repository[T, ID]),
	}
}

// Register adds repo under keyspace.
func (tr *TypedRepositories[T, ID]) Register(keyspace string, repo repository.Repository[T, ID]) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, exists := tr.repos[keyspace]; exists {
		return errors.NewAlreadyExistsError("repository", keyspace)
	}
	tr.repos[keyspace] = repo
	return nil
}

// Get returns the repository of keyspace.
func (tr *TypedRepositories[T, ID]) Get(keyspace string) (repository.Repository[T, ID], error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	repo, exists := tr.repos[keyspace]
	if !exists {
		return nil, errors.NewNotFoundError("repository", keyspace)
	}
	return repo, nil
}

// Remove drops the repository of keyspace. Stored entities are kept.
func (tr *TypedRepositories[T, ID]) Remove(keyspace string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, exists := tr.repos[keyspace]; !exists {
		return errors.NewNotFoundError("repository", keyspace)
	}
	delete(tr.repos, keyspace)
	return nil
}

// List returns the registered keyspaces in order.
func (tr *TypedRepositories[T, ID]) List() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	keys := make([]string, 0, len(tr.repos))
	for k := range tr.repos {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type repositoryType struct {
	entity reflect.Type
	id     reflect.Type
}

// Repositories manages TypedRepositories for different entity types.
type Repositories struct {
	mu    sync.RWMutex
	typed map[repositoryType]interface{ List() []string }
}

// NewRepositories creates an empty Repositories.
func NewRepositories() *Repositories {
	return &Repositories{
		typed: make(map[repositoryType]interface{ List() []string }),
	}
}

// Typed returns the TypedRepositories for T and ID, creating it if necessary.
func Typed[T any, ID comparable](r *Repositories) *TypedRepositories[T, ID] {
	key := repositoryType{
		entity: reflect.TypeOf((*T)(nil)).Elem(),
		id:     reflect.TypeOf((*ID)(nil)).Elem(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if typed, exists := r.typed[key]; exists {
		return typed.(*TypedRepositories[T, ID])
	}
	typed := NewTypedRepositories[T, ID]()
	r.typed[key] = typed
	return typed
}

// Keyspaces returns the keyspaces of every registered repository in order.
func (r *Repositories) Keyspaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var keys []string
	for _, typed := range r.typed {
		for _, k := range typed.List() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// RegisterRepository registers repo for T under keyspace.
func RegisterRepository[T any, ID comparable](r *Repositories, keyspace string, repo repository.Repository[T, ID]) error {
	return Typed[T, ID](r).Register(keyspace, repo)
}

// GetRepository returns the repository for T registered under keyspace.
func GetRepository[T any, ID comparable](r *Repositories, keyspace string) (repository.Repository[T, ID], error) {
	return Typed[T, ID](r).Get(keyspace)
}

// RemoveRepository removes the repository for T registered under keyspace.
func RemoveRepository[T any, ID comparable](r *Repositories, keyspace string) error {
	return Typed[T, ID](r).Remove(keyspace)
}

// ListRepositories lists the keyspaces with a repository for T.
func ListRepositories[T any, ID comparable](r *Repositories) []string {
	return Typed[T, ID](r).List()
}
