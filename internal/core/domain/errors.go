package domain

import "errors"

var ErrInvalidUser = errors.New("invalid user record")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrTokenRejected = errors.New("token rejected by profile service")
var ErrStoreUnavailable = errors.New("credential store unavailable")
