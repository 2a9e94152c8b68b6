// Package logger builds *slog.Logger instances with functional options,
// helper attribute constructors and transparent injection of values stored in
// context.Context.
//
// New selects slog.NewTextHandler or slog.NewJSONHandler and wraps it with
// LogHandlerDecorator, which runs the registered ContextExtractor callbacks
// before delegating each record.
//
// Attribute helpers (ActorID, Plan, Role, Feature, Reason, Job, ...) keep key
// names consistent across the entitlement, gate, dispatch and billing packages.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "entitlementd"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//
//	log.InfoContext(ctx, "upload denied",
//		logger.ActorID(actorID),
//		logger.Plan(plan.Free),
//		logger.Reason("file_size"),
//	)
package logger
