// Package logger builds the zap logger used across the service.
//
// New selects the development config for the "debug" level and the production
// config otherwise, with json or console encoding. OrNop lets constructors
// accept a nil logger.
//
// Request handlers log through WithRayID, which tags the entry with the RayID set
// by the rayid middleware:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Publish failed", zap.Error(err))
package logger
