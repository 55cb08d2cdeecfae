package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/flowblock/internal/config"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/editorsync"
	"github.com/specialistvlad/flowblock/internal/inmemorystore"
	"github.com/specialistvlad/flowblock/internal/localsession"
	"github.com/specialistvlad/flowblock/internal/nodestore"
	"github.com/specialistvlad/flowblock/internal/session"
	"github.com/specialistvlad/flowblock/internal/sqlitestore"
)

// Run builds every instance of the loaded graph, wires its connections,
// prints a report and optionally writes the graph back.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, store.Close()) }()

	pub, err := a.openPublisher(ctx)
	if err != nil {
		return err
	}

	factory := &localsession.SessionFactory{}
	sess, err := factory.NewSession(ctx, a.library, store, pub)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sess.Close(ctx)) }()

	a.startHealthCheckServer()
	defer func() { err = errors.Join(err, a.closeHealthCheckServer()) }()

	if err := a.buildGraph(ctx, sess); err != nil {
		return err
	}

	if err := writeReport(a.outW, sess.Graph()); err != nil {
		return err
	}

	if err := pub.Publish(ctx, editorsync.Event{Name: editorsync.EventGraphLoaded}); err != nil {
		a.logger.Warn("Failed to publish graph_loaded.", "error", err)
	}

	if a.config.OutPath != "" {
		out := &config.Model{Instances: sess.Export(ctx)}
		for _, c := range sess.Graph().Connections() {
			out.Connections = append(out.Connections, connectionModel(sess, c))
		}
		if err := a.writer.Write(ctx, a.config.OutPath, out); err != nil {
			return err
		}
		a.logger.Info("Graph written.", "path", a.config.OutPath)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) openStore(ctx context.Context) (nodestore.Store, error) {
	if a.config.DBPath == "" {
		return inmemorystore.New(), nil
	}
	s, err := sqlitestore.Open(ctx, a.config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database %s: %w", a.config.DBPath, err)
	}
	a.logger.Debug("Snapshot database opened.", "path", a.config.DBPath)
	return s, nil
}

func (a *App) openPublisher(ctx context.Context) (editorsync.Publisher, error) {
	if a.config.SyncURL == "" {
		return editorsync.NopPublisher{}, nil
	}
	return editorsync.Dial(ctx, editorsync.SocketIOOptions{
		URL:       a.config.SyncURL,
		Namespace: a.config.SyncNamespace,
	})
}

// buildGraph imports every instance and wires the connections.
func (a *App) buildGraph(ctx context.Context, sess session.Session) error {
	for _, in := range a.model.Instances {
		b, err := sess.ImportBlock(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to import instance: %w", err)
		}
		a.blocks.Add(1)
		a.logger.Debug("Instance imported.", "block_id", b.ID(), "state", b.State().String())
	}
	for _, c := range a.model.Connections {
		if _, err := sess.Graph().ConnectKeys(c.Source.BlockID, c.Source.PortKey, c.Sink.BlockID, c.Sink.PortKey); err != nil {
			return fmt.Errorf("failed to connect %s to %s: %w", c.Source, c.Sink, err)
		}
	}
	a.logger.Info("Graph built.", "blocks", len(sess.Graph().Blocks()), "connections", len(sess.Graph().Connections()))
	return nil
}
