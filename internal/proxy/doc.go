// Package proxy scopes outbound proxy configuration to a single conversion.
// Variables are applied to an Environment and always released afterwards, and
// in-process HTTP clients get the same settings through Transport or Switch.
package proxy
