/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"sync"

	"github.com/suparena/mapstore/registry"
)

const (
	RatingSystemKeyspace = "ratingSystems"
	PlayerKeyspace       = "players"
)

var once sync.Once

// Register adds the test models to the type and keyspace registries. It is
// safe to call more than once.
func Register() {
	once.Do(func() {
		registry.Register[RatingSystem]("RatingSystem")
		registry.Register[Player]("Player")
		registry.RegisterKeyspace[RatingSystem](RatingSystemKeyspace)
		registry.RegisterKeyspace[Player](PlayerKeyspace)
	})
}
