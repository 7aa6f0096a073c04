package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l1jgo/playerd/internal/config"
	"github.com/l1jgo/playerd/internal/core/clock"
	coresys "github.com/l1jgo/playerd/internal/core/system"
	"github.com/l1jgo/playerd/internal/data"
	"github.com/l1jgo/playerd/internal/handler"
	gonet "github.com/l1jgo/playerd/internal/net"
	"github.com/l1jgo/playerd/internal/net/packet"
	"github.com/l1jgo/playerd/internal/persist"
	"github.com/l1jgo/playerd/internal/player"
	"github.com/l1jgo/playerd/internal/presence"
	"github.com/l1jgo/playerd/internal/scripting"
	"github.com/l1jgo/playerd/internal/system"
	"github.com/l1jgo/playerd/internal/world"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations at startup")
}

func runServe(cmd *cobra.Command, _ []string) error {
	// 1. Config and logger
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	log.Info("starting", zap.String("server", cfg.Server.Name), zap.Int("id", cfg.Server.ID))

	// 2. PostgreSQL
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	if !skipMigrations {
		version, err := persist.RunMigrations(ctx, db.Pool, log)
		if err != nil {
			return err
		}
		log.Info("schema up to date", zap.Int64("version", version))
	}
	store := persist.NewStore(db, log)

	// 3. Static tables and world
	tables, err := data.LoadTables(cfg.Data)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	env := player.NewEnv(cfg, tables, clock.New(), log)
	state := world.NewState(env.Items, tables.Map, log)
	state.Parties.Configure(env.Clock, int64(cfg.Game.PzLocked))
	env.Game = state
	env.Store = store

	guilds, wars, err := loadGuilds(ctx, state.Guilds, store.Guilds)
	if err != nil {
		return err
	}
	log.Info("guilds loaded", zap.Int("guilds", guilds), zap.Int("wars", wars))

	// 4. Lua hooks; the server runs with pass-through hooks without them
	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		log.Error("lua scripts not loaded, using pass-through hooks", zap.Error(err))
	} else {
		defer engine.Close()
		env.Hooks = engine.Hooks()
	}

	// 5. Presence
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverName := fmt.Sprintf("%s-%d", cfg.Server.Name, cfg.Server.ID)
	deps := &handler.Deps{
		Config:  cfg,
		Log:     log,
		World:   state,
		Env:     env,
		Players: store,
	}
	var (
		pres    *presence.Store
		changes <-chan presence.StatusChange
	)
	if cfg.Redis.Addr != "" {
		pres, changes, err = startPresence(runCtx, cfg.Redis, serverName, log)
		if err != nil {
			return err
		}
		defer pres.Close()
		deps.Presence = pres
	}

	// 6. Packet handlers and network
	reg := packet.NewRegistry(log)
	handler.RegisterAll(reg, deps)

	netServer, err := gonet.NewServer(cfg.Network.BindAddress, gonet.SessionOptions{
		InQueueSize:      cfg.Network.InQueueSize,
		OutQueueSize:     cfg.Network.OutQueueSize,
		PacketsPerSecond: cfg.Network.PacketsPerSecond,
		WriteTimeout:     cfg.Network.WriteTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go netServer.AcceptLoop()

	// 7. Systems
	sessions := gonet.NewSessionStore()
	saver := persist.NewSaver(store, cfg.Database.SaveTimeout, log)
	var offline system.OfflineMarker
	if pres != nil {
		offline = pres
	}
	persistence := system.NewPersistenceSystem(state, saver, store, offline, env.Bus, cfg.Database.AutoSave, log)

	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(netServer, reg, sessions, state, cfg.Network.MaxPackets, log))
	if changes != nil {
		runner.Register(system.NewPresenceSystem(state, changes))
	}
	runner.Register(system.NewEventSystem(env.Bus))
	runner.Register(system.NewSchedulerSystem(env.Sched))
	runner.Register(system.NewThinkSystem(state, cfg.Network.ThinkEvery))
	runner.Register(system.NewOutputSystem(sessions))
	runner.Register(persistence)

	// 8. Game loop
	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()
	log.Info("listening",
		zap.String("addr", netServer.Addr().String()),
		zap.Duration("tick", cfg.Network.TickRate),
	)

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Network.TickRate)
		case <-runCtx.Done():
			log.Info("shutdown requested")
			netServer.Shutdown()
			for _, p := range state.Players() {
				state.RemoveCreature(p, true)
			}
			runner.TickPhase(coresys.PhaseOutput, 0)
			persistence.SaveAllPlayers()
			log.Info("server stopped")
			return nil
		}
	}
}

// loadGuilds registers every stored guild and war with the world.
func loadGuilds(ctx context.Context, guilds *world.Guilds, repo *persist.GuildRepo) (int, int, error) {
	rows, wars, err := repo.LoadAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, g := range rows {
		if _, err := guilds.Add(g.ID, g.Name, g.MOTD); err != nil {
			return 0, 0, fmt.Errorf("guild %d: %w", g.ID, err)
		}
	}
	started := 0
	for _, w := range wars {
		if guilds.StartWar(w.GuildA, w.GuildB) {
			started++
		}
	}
	return len(rows), started, nil
}

// startPresence connects to Redis, clears marks left by a previous run of
// this server and subscribes to the other servers' status changes.
func startPresence(ctx context.Context, cfg config.RedisConfig, server string, log *zap.Logger) (*presence.Store, <-chan presence.StatusChange, error) {
	pres, err := presence.Dial(ctx, cfg, server, log)
	if err != nil {
		return nil, nil, fmt.Errorf("presence: %w", err)
	}
	if n, err := pres.ClearServer(ctx); err != nil {
		log.Warn("stale presence not cleared", zap.Error(err))
	} else if n > 0 {
		log.Info("stale presence cleared", zap.Int("players", n))
	}
	changes, err := pres.Subscribe(ctx)
	if err != nil {
		_ = pres.Close()
		return nil, nil, err
	}
	return pres, changes, nil
}
