// Package logger wraps zap with a global sugared logger and context helpers.
//
// Services take a context and log through the logger stored in it, so a
// component name (WithName) or request fields (WithKV) attached once show up on
// every line written further down the call chain.
package logger
