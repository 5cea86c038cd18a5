package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"syscall"

	"github.com/iammegalith/telnet"
)

type TelnetListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewTelnetListener(port uint16, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		port: port,
		cm:   cm,
	}
}

// Start serves telnet until ctx is canceled. Open sessions are canceled and
// waited for before Start returns.
func (l *TelnetListener) Start(ctx context.Context) error {
	sessCtx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()

	h := &telnetSessions{ctx: sessCtx, cm: l.cm}
	svr := telnet.NewServer(fmt.Sprintf(":%d", l.port), h)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
		case <-stopped:
		}
	}()

	slog.InfoContext(ctx, "listening for telnet", "port", l.port)

	err := svr.ListenAndServe()
	cancelSessions()
	h.wg.Wait()
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("telnet port %d is already in use", l.port)
		}
		return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
	}
	return nil
}

// telnetSessions runs one session per telnet connection, all sharing ctx.
type telnetSessions struct {
	ctx context.Context
	cm  *ConnectionManager
	wg  sync.WaitGroup
}

func (h *telnetSessions) HandleTelnet(conn *telnet.Connection) {
	h.wg.Add(1)
	defer h.wg.Done()

	h.cm.AcceptConnection(h.ctx, newCRLFReadWriter(conn))

	if err := conn.Close(); err != nil {
		slog.DebugContext(h.ctx, "closing telnet connection", "error", err)
	}
}
