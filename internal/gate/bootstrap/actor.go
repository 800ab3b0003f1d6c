package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/isseis/go-iot-risk-gate/internal/gate/config"
	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// Static errors for actor resolution
var (
	ErrActorNameRequired = errors.New("actor name is required")
	ErrUnknownActor      = errors.New("actor not found in roster and no role given")
)

// ResolveActor determines who is operating the session. A roster entry
// from the configuration is authoritative; the role argument is consulted
// only for actors outside the roster, building an ad-hoc active actor.
func ResolveActor(cfg *config.Config, name, role string) (gatetypes.Actor, error) {
	if name == "" {
		return gatetypes.Actor{}, ErrActorNameRequired
	}

	for _, actor := range cfg.Actors {
		if actor.Name == name {
			return actor, nil
		}
	}

	if role == "" {
		return gatetypes.Actor{}, fmt.Errorf("%w: %q", ErrUnknownActor, name)
	}

	parsed, err := gatetypes.ParseRole(role)
	if err != nil {
		return gatetypes.Actor{}, fmt.Errorf("cannot resolve actor %q: %w", name, err)
	}

	slog.Info("Actor not in roster, using ad-hoc role",
		"actor", name,
		"role", parsed.String(),
	)
	return gatetypes.Actor{Name: name, Role: parsed, Active: true}, nil
}
