// Package txn runs multi-document writes in a MongoDB transaction when the
// deployment supports one.
//
// Standalone servers (the usual local dev setup) cannot run transactions; on
// those the function runs once without one and the writes are applied in
// order.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Func receives a mongo.SessionContext inside a transaction, or the parent
// context on the fallback path. Every database call must use it.
type Func func(ctx context.Context) error

// Run executes fn in a transaction, falling back to a plain call when the
// server reports that transactions are unavailable. log may be nil.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn Func) error {
	session, err := db.Client().StartSession()
	if err != nil {
		warn(log, "failed to start session, running without transaction", err)
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warn(log, "transactions not supported, running without transaction", err)
		return fn(ctx)
	}
	return err
}

func warn(log *zap.Logger, msg string, err error) {
	if log != nil {
		log.Warn(msg, zap.Error(err))
	}
}

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions.
//
// Known codes: 20 (transaction numbers need a replica set member or mongos),
// 51 (IllegalOperation), 263 (operation not allowed in a transaction).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	// Wrapped driver errors lose the code; require two hints in the message
	// so unrelated failures are not swallowed.
	msg := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			hits++
		}
	}
	return hits >= 2
}
