package broker

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"kraftbroker/internal/handler"
	"kraftbroker/internal/kafkaproto"
	"kraftbroker/internal/kraft"
	"kraftbroker/internal/logdir"
)

// Broker accepts TCP connections and drives each one: read a framed
// request, dispatch it, write the framed response, loop until the
// connection errors or closes. It holds no per-partition write path —
// producing, replication and write-back to the metadata log are all
// Non-goals — so the only mutable state per request is the metadata
// snapshot it reloads from disk.
type Broker struct {
	Config Config
	Logger *slog.Logger

	quit  chan struct{}
	ready chan struct{}
	wg    sync.WaitGroup
	ln    net.Listener
}

func New(cfg Config, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		Config: cfg,
		Logger: logger,
		quit:   make(chan struct{}),
		ready:  make(chan struct{}),
	}
}

// Start listens on Config.ListenAddr and serves connections until
// Stop is called. Config.ListenAddr may use port 0 to bind an
// ephemeral port; callers needing the bound address call Addr() from
// another goroutine, which blocks until Start has bound the listener.
// If Start fails to bind, Addr() never returns.
func (b *Broker) Start() error {
	ln, err := net.Listen("tcp", b.Config.ListenAddr)
	if err != nil {
		return err
	}
	b.ln = ln
	close(b.ready)

	b.Logger.Info("broker listening", "addr", ln.Addr().String(), "log_dir", b.Config.LogDir)

	go func() {
		<-b.quit
		b.Logger.Info("broker stopping, closing listener")
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-b.quit:
				return nil
			default:
				b.Logger.Error("accept error", "err", err)
				continue
			}
		}

		b.wg.Add(1)
		go b.handleConnection(conn)
	}
}

// Addr blocks until the broker has bound its listener, then returns
// its address.
func (b *Broker) Addr() net.Addr {
	<-b.ready
	return b.ln.Addr()
}

func (b *Broker) Stop() {
	close(b.quit)
	b.wg.Wait()
}

func (b *Broker) handleConnection(conn net.Conn) {
	defer func() {
		conn.Close()
		b.wg.Done()
	}()

	dir := logdir.Dir{Root: b.Config.LogDir}

	for {
		frame, err := kafkaproto.ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				b.Logger.Debug("connection closed", "err", err)
			}
			return
		}

		snapshot, err := b.loadSnapshot(dir)
		if err != nil {
			b.Logger.Error("loading metadata snapshot", "err", err)
			return
		}

		dispatcher := &handler.Dispatcher{
			Snapshot: snapshot,
			LogDir:   dir,
			Logger:   b.Logger,
		}

		respBody, err := dispatcher.Dispatch(frame)
		if err != nil {
			b.Logger.Error("dispatch error", "err", err)
			return
		}

		if err := kafkaproto.WriteFrame(conn, respBody); err != nil {
			b.Logger.Debug("write error", "err", err)
			return
		}
	}
}

// loadSnapshot mmaps and decodes the cluster metadata log fresh for
// each request. A cluster with no metadata log yet (nothing written
// to __cluster_metadata-0) is treated as an empty snapshot rather than
// an error, so ApiVersions and an empty DescribeTopicPartitions still
// work against a broker that was never bootstrapped.
func (b *Broker) loadSnapshot(dir logdir.Dir) (kraft.Snapshot, error) {
	f, err := dir.OpenMetadataLog()
	if errors.Is(err, logdir.ErrNoSuchLog) {
		return kraft.NewSnapshot(nil)
	}
	if err != nil {
		return kraft.Snapshot{}, err
	}
	defer f.Close()

	return kraft.NewSnapshot(f.Bytes())
}
