package events

import "time"

// CompileStart is emitted before a query block is compiled.
type CompileStart struct {
	Module string
	File   string
	Line   int
}

// CompileFinish is emitted after a query block is compiled.
type CompileFinish struct {
	Module      string
	Definitions int
	Err         error
	Duration    time.Duration
}

// QueryStart is emitted before a request is sent to the endpoint.
type QueryStart struct {
	Query         string
	OperationName string
	OperationType string
}

// QueryFinish is emitted after a response arrives and is decoded.
type QueryFinish struct {
	Query         string
	OperationName string
	OperationType string
	ErrorCount    int
	Err           error
	Duration      time.Duration
}
