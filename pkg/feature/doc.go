// Package feature stores capability overrides and exposes them to the
// entitlement resolver.
//
// A Flag named after a plan feature (for example "ai_video_generation")
// grants that feature to the subjects its Strategy selects, independent of
// the actor's plan. Querier adapts any Provider to
// entitlement.CapabilityQuerier:
//
//	provider, _ := feature.NewMemoryProvider(&feature.Flag{
//		Name:     "ai_video_generation",
//		Enabled:  true,
//		Strategy: feature.NewTargetedStrategy(feature.TargetCriteria{ActorIDs: []string{"seller-42"}}),
//	})
//	resolver := entitlement.NewResolver(catalog,
//		entitlement.WithCapabilityQuerier(feature.NewQuerier(provider)),
//	)
//
// Strategies read the subject from the context (WithSubject); the querier
// fills it with the actor ID and the actor's plan and role as groups.
// Package launchdarkly offers a hosted alternative to MemoryProvider.
package feature
