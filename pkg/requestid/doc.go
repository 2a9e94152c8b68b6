// Package requestid tags every HTTP request with a correlation ID.
//
// Middleware reuses a well-formed X-Request-ID header from the client and
// otherwise generates a UUID. The ID is echoed in the response header and
// stored in the request context, where LoggerExtractor picks it up for
// structured logs:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
