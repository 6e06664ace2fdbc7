/*
Package errors provides semantic error types for the mapstore library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound      = errors.New("entity not found")
	    ErrAlreadyExists = errors.New("entity already exists")
	    ErrInvalidInput  = errors.New("invalid input")
	    ErrUnsupported   = errors.New("unsupported operation")
	    ErrUnknownType   = errors.New("unknown type")
	    ErrTransient     = errors.New("transient failure")
	)

Usage:

	user, err := users.FindByID(ctx, "123")
	if err != nil {
	    if errors.IsNotFound(err) {
	        return nil, fmt.Errorf("user %s does not exist", "123")
	    }
	    return nil, err
	}

	// Writes with a nil id or item fail validation before reaching the map
	_, err = adapter.Put(ctx, nil, user, "users")
	errors.IsValidationError(err) // true

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
