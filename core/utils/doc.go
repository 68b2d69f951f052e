// Package utils holds small pieces shared by several core packages that don't fit
// into a domain-specific package, such as the configuration error sentinel.
package utils
