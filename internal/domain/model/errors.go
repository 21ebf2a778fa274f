package model

import "errors"

// ErrConfiguration is returned when the labeling service cannot be used
// because its credentials are missing or malformed.
var ErrConfiguration = errors.New("labeling service not configured")

// ErrMissingImage is returned when a labeling request carries no image file.
var ErrMissingImage = errors.New("missing image file")

// ErrUpstream is returned when the external labeling service fails.
var ErrUpstream = errors.New("labeling service request failed")
