package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrEmptyConnectionURL     = errors.New("mongo: MONGODB_URL is empty")
	ErrFailedToConnectToMongo = errors.New("mongo: server unreachable")
	ErrPingFailed             = errors.New("mongo: ping failed")
)

// Server error codes the storefront treats as "already exists".
const (
	NamespaceExists       = 48
	IndexOptionsConflict  = 85
	IndexKeySpecsConflict = 86
)

// IsNamespaceExists reports whether err says the collection already exists.
func IsNamespaceExists(err error) bool {
	var srvErr mongo.ServerError
	return errors.As(err, &srvErr) && srvErr.HasErrorCode(NamespaceExists)
}

// IsIndexConflict reports whether err says an index with the same name
// already exists with a different definition.
func IsIndexConflict(err error) bool {
	var srvErr mongo.ServerError
	return errors.As(err, &srvErr) &&
		(srvErr.HasErrorCode(IndexOptionsConflict) || srvErr.HasErrorCode(IndexKeySpecsConflict))
}
