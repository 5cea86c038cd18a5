package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-mudcore/internal/listener"
	"github.com/pixil98/go-mudcore/internal/messaging"
	"github.com/pixil98/go-mudcore/internal/plugins"
	"github.com/pixil98/go-mudcore/internal/plugins/base"
	"github.com/pixil98/go-mudcore/internal/plugins/chat"
	"github.com/pixil98/go-mudcore/internal/plugins/scripted"
	"github.com/pixil98/go-mudcore/internal/session"
	"github.com/pixil98/go-mudcore/internal/systems"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}
	ctx := context.Background()

	natsServer, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	diceSystem, err := cfg.Dice.BuildSystem()
	if err != nil {
		return nil, err
	}

	scripts, err := cfg.Storage.BuildScriptStore()
	if err != nil {
		return nil, err
	}

	// Systems provided by the transport must exist before plugins start
	pm := plugins.NewPluginManager(nil)
	host := pm.Host()
	sessions := session.NewManager(host, natsServer)
	if err := systems.Register[chat.Broadcaster](host.Systems, messaging.NewBroadcaster(natsServer)); err != nil {
		return nil, err
	}
	if err := systems.Register[chat.Messenger](host.Systems, sessions); err != nil {
		return nil, err
	}

	for _, p := range []plugins.Plugin{base.NewBasePlugin(diceSystem), scripted.NewPlugin(scripts)} {
		if err := pm.Register(ctx, p); err != nil {
			return nil, err
		}
	}
	if err := pm.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting plugins: %w", err)
	}

	// Create Listeners
	cm := listener.NewConnectionManager(sessions)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("%s-%d", l.Protocol, i)] = w
	}

	return service.WorkerList{
		"nats":      natsServer,
		"listeners": &afterReady{ready: natsServer.Ready(), worker: &listeners},
	}, nil
}

// afterReady holds a worker back until ready is closed.
type afterReady struct {
	ready  <-chan struct{}
	worker service.Worker
}

func (a *afterReady) Start(ctx context.Context) error {
	select {
	case <-a.ready:
	case <-ctx.Done():
		return nil
	}
	return a.worker.Start(ctx)
}
