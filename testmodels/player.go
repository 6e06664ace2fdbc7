/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import "github.com/go-openapi/strfmt"

// Player player
type Player struct {

	// Unique identifier for the player.
	// Required: true
	ID string `json:"Id"`

	// First name of the player.
	// Required: true
	FirstName string `json:"FirstName"`

	// Last name of the player.
	// Required: true
	LastName string `json:"LastName"`

	// Email address of the player.
	// Format: email
	Email strfmt.Email `json:"Email,omitempty"`

	// Current rating of the player.
	Rating float64 `json:"Rating"`

	// Identifier of the rating system the rating belongs to.
	RatingSystemID string `json:"RatingSystemId,omitempty"`

	// Whether the player takes part in ranked play.
	Active bool `json:"Active"`

	// Tags attached to the player.
	Tags []string `json:"Tags"`

	// Timestamp when the player joined.
	// Format: date-time
	JoinedAt *strfmt.DateTime `json:"JoinedAt,omitempty"`
}
