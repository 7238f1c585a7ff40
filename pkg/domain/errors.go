package domain

import "errors"

// ErrHandlerFailed is returned when the selected command's Execute reports an error.
var ErrHandlerFailed = errors.New("handler failed")

// ErrHandlerPanic is returned when the selected command panics during Execute.
var ErrHandlerPanic = errors.New("handler panicked")

// ErrTransportClosed is returned by sources that will not produce more updates.
var ErrTransportClosed = errors.New("transport closed")

// ErrUnsupportedMessage is returned by sinks that cannot deliver a message kind.
var ErrUnsupportedMessage = errors.New("unsupported message")
