// Package httpserver runs an http.Handler with configured timeouts and
// graceful shutdown driven by context cancellation, and provides liveness
// and readiness handlers for orchestrator probes.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run wraps listen errors with ErrStart; Shutdown wraps failures with ErrShutdown.
package httpserver
