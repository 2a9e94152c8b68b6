// Package redis connects to Redis with retries and exposes a readiness probe.
//
// The returned *redis.Client (github.com/redis/go-redis/v9) backs
// usage.RedisCache, the shared usage snapshot cache used when several
// service replicas run side by side.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	probes["redis"] = redis.Healthcheck(client)
package redis
