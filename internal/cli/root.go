package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/drujensen/reactagent/internal/domain/prompts"
	"github.com/drujensen/reactagent/internal/domain/services"
	"github.com/drujensen/reactagent/internal/impl/config"
	"github.com/drujensen/reactagent/internal/impl/integrations"
	"github.com/drujensen/reactagent/internal/impl/tools"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd wires the cobra tree. The root command itself runs the console.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "reactagent",
		Short:         "Interactive ReAct agent backed by a DeepSeek chat model",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(logger *zap.Logger, cfg *config.Config, client *integrations.DeepseekIntegration) error {
				registry := tools.NewDefaultRegistry(logger)
				temperature := cfg.Settings.Temperature
				logger.Info("Starting session",
					zap.String("model", client.ModelName()),
					zap.Strings("tools", registry.Names()))
				chatService := services.NewChatService(client, registry, services.ChatServiceOptions{
					Model:       cfg.Model,
					Temperature: &temperature,
					MaxTokens:   cfg.Settings.MaxTokens,
					MaxSteps:    cfg.Settings.MaxSteps,
					Environment: currentEnvironment(),
				}, logger)

				return NewCLI(chatService, cmd.InOrStdin(), cmd.OutOrStdout(), logger).Run(cmd.Context())
			})
		},
	}

	root.AddCommand(
		newModelsCmd(),
		newInitCmd(),
	)
	return root
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models served by the configured endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(logger *zap.Logger, cfg *config.Config, client *integrations.DeepseekIntegration) error {
				models, err := client.ListModels(cmd.Context())
				if err != nil {
					return err
				}
				for _, model := range models {
					fmt.Fprintln(cmd.OutOrStdout(), model)
				}
				return nil
			})
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := config.NewLogger()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			path, err := config.SettingsPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Settings already exist at %s\n", path)
				return nil
			}
			if err := config.SaveSettings(path, config.DefaultSettings(), logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default settings to %s\n", path)
			return nil
		},
	}
}

// withSession builds the logger, configuration and model client shared by
// the commands that talk to the model.
func withSession(fn func(logger *zap.Logger, cfg *config.Config, client *integrations.DeepseekIntegration) error) error {
	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.InitConfig(logger)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := integrations.NewDeepseekIntegration(cfg.BaseURL, cfg.APIKey, cfg.Model, logger)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	return fn(logger, cfg, client)
}

func currentEnvironment() prompts.Environment {
	wd, _ := os.Getwd()
	return prompts.Environment{
		OperatingSystem:  runtime.GOOS,
		WorkingDirectory: wd,
	}
}
