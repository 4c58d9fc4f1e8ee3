package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/jadenj13/fileagent/internals/agent"
	"github.com/jadenj13/fileagent/internals/config"
	"github.com/jadenj13/fileagent/internals/llm"
	"github.com/jadenj13/fileagent/internals/terminal"
	"github.com/jadenj13/fileagent/internals/tools"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		cfgPath   string
		model     string
		maxTokens int64
		dir       string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:           "agent",
		Short:         "Chat with Claude, which can read, list and edit local files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				return err
			}
			if cmd.Flags().Changed("model") {
				cfg.Model = model
			}
			if cmd.Flags().Changed("max-tokens") {
				cfg.MaxTokens = maxTokens
			}
			if cmd.Flags().Changed("dir") {
				cfg.Dir = dir
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", os.Getenv("AGENT_CONFIG"), "path to a JSON5 config file")
	cmd.Flags().StringVarP(&model, "model", "m", config.DefaultModel, "model identifier")
	cmd.Flags().Int64Var(&maxTokens, "max-tokens", config.DefaultMaxTokens, "output token cap per inference call")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory tool paths are resolved against")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	return cmd
}

func run(cfg config.Config) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		return err
	}

	registry, err := tools.NewRegistry(tools.Builtins(tools.Workspace{Root: cfg.Dir})...)
	if err != nil {
		log.Error("build tool registry", "err", err)
		return err
	}

	llmOpts := []llm.Option{
		llm.WithModel(anthropic.Model(cfg.Model)),
		llm.WithMaxTokens(cfg.MaxTokens),
		llm.WithLogger(log),
	}
	if cfg.BaseURL != "" {
		llmOpts = append(llmOpts, llm.WithRequestOptions(option.WithBaseURL(cfg.BaseURL)))
	}
	llmClient := llm.NewClient(cfg.APIKey, llmOpts...)

	printer := terminal.NewPrinter(os.Stdout)
	a := agent.New(llmClient, tools.NewInvoker(registry, log), registry.Definitions(),
		agent.WithLogger(log),
		agent.WithSystemPrompt(cfg.System),
		agent.WithOutput(printer),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("agent starting", "model", cfg.Model, "dir", cfg.Dir)
	printer.Banner(cfg.Model)
	if err := a.Run(ctx, terminal.NewReader(os.Stdin)); err != nil {
		log.Error("agent exited with error", "err", err)
		return err
	}
	fmt.Fprintln(os.Stdout)
	return nil
}
