package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kestrelengine/core/external"
	"github.com/kestrelengine/core/service"
)

var logLevel string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kestrel",
	Short: "Runs the kestrel engine core's service kernel",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides KESTREL_LOG_LEVEL")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := service.LoadBuildConfig()
	if err != nil {
		return fmt.Errorf("loading build config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid build config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", cfg.LogLevel, err)
	}
	zl := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	logger := external.NewZerologLogger(zl)

	kernel := service.NewKernel(cfg)
	kernel.BindAmbient(logger, external.NewNoopWindowManager(0))

	proxy, ok := service.SetupService(kernel, true, func(p *service.Provider) (*service.KernelProxy, error) {
		return service.NewKernelProxy(kernel)
	})
	if !ok {
		return fmt.Errorf("kernel proxy setup failed")
	}

	schedulerCtor := func(p *service.Provider) (*service.SchedulerService, error) {
		return service.NewScheduler(kernel)
	}
	if _, ok := service.SetupService(kernel, true, schedulerCtor); !ok {
		return fmt.Errorf("scheduler setup failed")
	}
	defer kernel.Provider().Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		proxy.RequestShutdown(0)
	}()

	logger.Info("kernel starting", "multithread", cfg.MultithreadEnabled, "thread_labels", cfg.ThreadLabelsEnabled)
	exitCode := kernel.Run(ctx)
	if exitCode != 0 {
		return fmt.Errorf("kernel exited with code %d", exitCode)
	}
	return nil
}
