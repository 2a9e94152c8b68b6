// Package config loads typed configuration structs from environment
// variables with github.com/caarlos0/env/v11, optionally seeded from dotenv
// files through github.com/joho/godotenv.
//
// Every component that needs settings (Redis, Postgres, token verification,
// billing webhooks, the usage cache) declares an env-tagged struct next to
// its code; the binary loads each one with Load:
//
//	var pgCfg pg.Config
//	if err := config.Load(&pgCfg); err != nil {
//		return err
//	}
//
// Parsed values are cached per type for the lifetime of the process. Reset
// clears the cache in tests.
package config
