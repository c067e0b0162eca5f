package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/graham/internal/api"
	"github.com/wonny/graham/internal/api/handlers"
	"github.com/wonny/graham/internal/audit"
	"github.com/wonny/graham/internal/scheduler"
	"github.com/wonny/graham/internal/scheduler/jobs"
	"github.com/wonny/graham/internal/strategy"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "호스트 런타임 시작 (스케줄러 + API)",
	Long: `전략 호스트를 시작합니다.

이 명령어는:
- before_trading_start: 장 시작 전 섹터 선택 (RUNTIME_BEFORE_TRADING_SCHEDULE)
- handle_data: 장중 리밸런싱 (RUNTIME_BAR_SCHEDULE)
- symbol_refresh: 종목 디렉토리 갱신 (RUNTIME_SYMBOL_REFRESH_SCHEDULE)
- cache_cleanup: 오래된 호가 캐시 정리 (5분마다)
- daily_snapshot: 장 마감 후 계좌 스냅샷 (RUNTIME_SNAPSHOT_SCHEDULE)
- 상태 API와 /ws/events 이벤트 스트림 제공

Endpoints:
  GET  /health
  GET  /api/selection
  GET  /api/rankings
  GET  /api/rebalance/last
  GET  /api/positions
  GET  /api/orders
  GET  /api/symbols/search?q=
  GET  /api/performance?period=
  GET  /api/equity?period=
  GET  /api/jobs
  POST /api/jobs/{name}/run
  GET  /ws/events

Example:
  go run ./cmd/graham run
  go run ./cmd/graham run --port 8090`,
	RunE: runHost,
}

var runPort string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runHost(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Graham Strategy Host ===")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := newDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if runPort != "" {
		d.cfg.Port = runPort
	}
	log := d.log
	loc := d.cfg.Location()

	// 1. Symbols + engine
	registry := d.loadSymbols(ctx)
	engine, err := d.paperEngine(ctx, registry)
	if err != nil {
		return err
	}

	// 2. Strategy host
	hub := api.NewHub(log)
	defer hub.Close()

	host := strategy.NewHost(strategy.New(d.strategy, d.provider, engine, log), log, hub)
	if err := host.Initialize(ctx, d.cfg.Runtime.ScreenOnInitialize); err != nil {
		// 다음 before_trading_start에서 재시도
		log.WithError(err).Warn("Initial screen failed")
	}

	// 3. Audit
	store, err := d.auditStore(ctx)
	if err != nil {
		return err
	}
	recorder := audit.NewRecorder(store, engine, host, log).WithDecision(d.decision)

	// 4. Scheduler
	sched := scheduler.New(log, loc)
	clock := func() strategy.Bar { return strategy.Bar{Time: time.Now().In(loc)} }

	for _, job := range []scheduler.Job{
		jobs.NewBeforeTradingStartJob(host, d.cfg.Runtime.BeforeTradingSchedule),
		jobs.NewHandleDataJob(host, d.cfg.Runtime.BarSchedule, clock),
		jobs.NewSymbolRefreshJob(d.iex, registry, d.cfg.Runtime.SymbolRefreshSchedule, log),
		jobs.NewCacheCleanupJob(d.quotes, log),
		jobs.NewSnapshotJob(recorder, d.cfg.Runtime.SnapshotSchedule),
	} {
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("add job %s: %w", job.Name(), err)
		}
	}

	sched.Start()
	defer sched.Stop()

	for _, name := range sched.GetAllJobs() {
		if next, err := sched.NextRun(name); err == nil {
			log.WithFields(map[string]interface{}{
				"job":      name,
				"next_run": next,
			}).Info("Job scheduled")
		}
	}

	// 5. API server
	router := api.NewRouter(api.Handlers{
		Strategy:    handlers.NewStrategyHandler(host, log),
		Account:     handlers.NewAccountHandler(engine, log),
		Symbols:     handlers.NewSymbolHandler(registry, log),
		Jobs:        handlers.NewJobHandler(sched, log),
		Performance: handlers.NewPerformanceHandler(audit.NewAnalyzer(store, log), log),
		Stream:      hub,
	}, log)
	server := api.New(d.cfg, log, router)

	fmt.Printf("\n✅ Host running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("api server: %w", err)
	}

	log.Info("Host stopped")
	return nil
}
