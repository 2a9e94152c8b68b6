// Package environment names the deployment environment the service runs in
// and propagates it through context.Context.
//
// Parse normalises the APP_ENV value read by the binary; the result selects
// logger defaults via logger.WithEnvironment. Middleware attaches the value
// to each request so handlers can query IsProduction or IsDevelopment.
package environment
