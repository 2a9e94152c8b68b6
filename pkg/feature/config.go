package feature

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// MemoryConfig seeds a MemoryProvider from the environment, for
// single-instance deployments without a flag service.
//
//	FEATURE_FLAGS="api_access:seller-1|beta-seller,custom_domain:*,video_ads:premium"
//
// Each entry maps a capability key to "|"-separated targets. A target is an
// actor ID or a plan or role name; "*" grants the flag to everyone.
type MemoryConfig struct {
	Flags map[string]string `env:"FEATURE_FLAGS" envSeparator:"," envKeyValSeparator:":"`
}

// everyone is the target granting a flag to every subject.
const everyone = "*"

// NewMemoryProviderFromConfig builds one enabled flag per configured key.
func NewMemoryProviderFromConfig(cfg MemoryConfig) (*MemoryProvider, error) {
	flags := make([]*Flag, 0, len(cfg.Flags))
	for _, name := range slices.Sorted(maps.Keys(cfg.Flags)) {
		targets := splitTargets(cfg.Flags[name])
		if len(targets) == 0 {
			return nil, errors.Join(ErrInvalidFlag, fmt.Errorf("flag %q has no targets", name))
		}

		flag := &Flag{Name: name, Enabled: true, Tags: []string{"env"}}
		if !slices.Contains(targets, everyone) {
			flag.Strategy = NewTargetedStrategy(TargetCriteria{ActorIDs: targets, Groups: targets})
		}
		flags = append(flags, flag)
	}
	return NewMemoryProvider(flags...)
}

func splitTargets(raw string) []string {
	var out []string
	for t := range strings.SplitSeq(raw, "|") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
