package engine

import "errors"

var (
	errUnknownSymbol    = errors.New("unknown symbol")
	errDuplicateOrder   = errors.New("duplicate client order id")
	errOrderNotFound    = errors.New("order not found")
	errNotOrderOwner    = errors.New("order belongs to another client")
	errUnknownCommand   = errors.New("unknown command type")
	ErrEngineNotStarted = errors.New("engine not started")
	ErrEngineStopped    = errors.New("engine stopped")
)
