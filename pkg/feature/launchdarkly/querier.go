// Package launchdarkly serves capability overrides from LaunchDarkly.
//
// Each capability key is evaluated as a boolean flag for a context built
// from the actor: the actor ID is the context key, plan and role are
// custom attributes available to targeting rules.
package launchdarkly

import (
	"context"
	"errors"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/launchdarkly/go-server-sdk/v7/ldcomponents"

	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
)

// Config holds configuration for the LaunchDarkly client.
type Config struct {
	SDKKey       string        `env:"LAUNCHDARKLY_SDK_KEY"`
	Stream       bool          `env:"LAUNCHDARKLY_STREAM" envDefault:"true"`
	PollInterval time.Duration `env:"LAUNCHDARKLY_POLL_INTERVAL" envDefault:"30s"`
	RelayProxy   string        `env:"LAUNCHDARKLY_RELAY_PROXY"`
	InitTimeout  time.Duration `env:"LAUNCHDARKLY_INIT_TIMEOUT" envDefault:"5s"`
}

var ErrMissingSDKKey = errors.New("launchdarkly: sdk key is required")

// boolEvaluator is the part of *ld.LDClient the querier needs.
type boolEvaluator interface {
	BoolVariation(key string, context ldcontext.Context, defaultVal bool) (bool, error)
	Close() error
}

// Querier implements entitlement.CapabilityQuerier on top of LaunchDarkly.
type Querier struct {
	client boolEvaluator
}

// New connects to LaunchDarkly, waiting at most cfg.InitTimeout for flags.
// An initialisation timeout is not fatal: the client keeps connecting in the
// background and evaluations return false until it is ready.
func New(cfg Config) (*Querier, error) {
	if cfg.SDKKey == "" {
		return nil, ErrMissingSDKKey
	}

	ldCfg := ld.Config{}
	if !cfg.Stream {
		ldCfg.DataSource = ldcomponents.PollingDataSource().PollInterval(cfg.PollInterval)
	}
	if cfg.RelayProxy != "" {
		ldCfg.ServiceEndpoints.Streaming = cfg.RelayProxy
		ldCfg.ServiceEndpoints.Polling = cfg.RelayProxy
		ldCfg.ServiceEndpoints.Events = cfg.RelayProxy
	}

	client, err := ld.MakeCustomClient(cfg.SDKKey, ldCfg, cfg.InitTimeout)
	if err != nil && client == nil {
		return nil, err
	}
	return NewWithClient(client), nil
}

// NewWithClient wraps an existing evaluator, such as a configured *ld.LDClient.
func NewWithClient(client boolEvaluator) *Querier {
	return &Querier{client: client}
}

// HasCapability evaluates key as a boolean flag defaulting to false.
func (q *Querier) HasCapability(_ context.Context, actor entitlement.Actor, key string) (bool, error) {
	return q.client.BoolVariation(key, actorContext(actor), false)
}

// Close flushes analytics events and shuts the client down.
func (q *Querier) Close() error {
	return q.client.Close()
}

func actorContext(actor entitlement.Actor) ldcontext.Context {
	key := actor.ID
	anonymous := key == ""
	if anonymous {
		key = "anonymous"
	}
	return ldcontext.NewBuilder(key).
		Kind("seller").
		Anonymous(anonymous).
		SetString("plan", string(actor.Plan)).
		SetString("role", string(actor.Role)).
		Build()
}

var _ entitlement.CapabilityQuerier = (*Querier)(nil)
