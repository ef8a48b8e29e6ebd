package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/skillforge-go/internal/app"
	"github.com/quantmind-br/skillforge-go/internal/config"
	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/history"
	"github.com/quantmind-br/skillforge-go/internal/llm"
	"github.com/quantmind-br/skillforge-go/internal/skill"
	"github.com/quantmind-br/skillforge-go/internal/utils"
	"github.com/quantmind-br/skillforge-go/pkg/version"
)

const pipelineStages = 5

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	// Dependency for testing
	headRequest = doHeadRequest
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skillforge [url...]",
	Short: "Generate Claude Skills from GitHub repositories",
	Long: `SkillForge clones a GitHub repository, analyzes its contents, and uses
an LLM to generate a packaged Claude Skill (SKILL.md plus reference and
template files).

Pass up to ` + fmt.Sprint(config.MaxBatchSize) + ` repository URLs; they are processed one at a time.`,
	Version:       version.Short(),
	Args:          cobra.MaximumNArgs(config.MaxBatchSize),
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.skillforge/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().StringP("output", "o", "", "Skill output directory")
	rootCmd.Flags().BoolP("install", "i", false, "Install the generated skill into the skills directory")
	rootCmd.Flags().String("provider", "", "LLM provider (openai, anthropic, google, ollama)")
	rootCmd.Flags().String("model", "", "LLM model name")
	rootCmd.Flags().String("api-key", "", "LLM API key")
	rootCmd.Flags().String("base-url", "", "LLM API base URL override")
	rootCmd.Flags().String("github-token", "", "GitHub token for metadata and private repositories")
	rootCmd.Flags().Duration("timeout", 0, "Clone timeout")
	rootCmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	_ = viper.BindPFlag("skill.output_dir", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("llm.provider", rootCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("llm.api_key", rootCmd.Flags().Lookup("api-key"))
	_ = viper.BindPFlag("llm.base_url", rootCmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("github.token", rootCmd.Flags().Lookup("github-token"))
	_ = viper.BindPFlag("clone.timeout", rootCmd.Flags().Lookup("timeout"))

	historyCmd.Flags().Bool("stats", false, "Show aggregate statistics")
	historyCmd.Flags().Int64("delete", 0, "Delete the record with the given ID")
	historyCmd.Flags().Int("limit", 20, "Maximum number of records to show")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func newLogger() *utils.Logger {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	return utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Verbose: verbose,
	})
}

func run(cmd *cobra.Command, args []string) error {
	log = newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		return cmd.Help()
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}
	install, _ := cmd.Flags().GetBool("install")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	bar := utils.NewProgressBar(pipelineStages*len(args), "Starting")
	pipeline, err := app.New(app.Options{
		Config: cfg,
		Logger: log,
		Progress: func(stage, message string) {
			bar.Describe(stage + ": " + message)
			_ = bar.Add(1)
		},
	})
	if err != nil {
		return err
	}
	defer pipeline.Close()

	items, err := pipeline.RunBatch(ctx, args, install)
	_ = bar.Finish()
	fmt.Println()
	if err != nil {
		return err
	}

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			fmt.Printf("FAILED  %s\n        %s\n", item.Locator, domain.UserMessage(item.Err))
			continue
		}
		status := "built"
		if item.Result.Installed {
			status = "installed"
		}
		fmt.Printf("OK      %s -> %s (%s)\n        %s\n", item.Locator, item.Result.SkillName, status, item.Result.ZipPath)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d repositories failed", failed, len(items))
	}
	return nil
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previously generated skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cfg.History.Enabled {
			return errors.New("history is disabled in the configuration")
		}

		store, err := history.Open(utils.ExpandPath(cfg.History.Path))
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
			stats, err := store.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Total:     %d\n", stats.Total)
			fmt.Printf("Succeeded: %d\n", stats.Succeeded)
			fmt.Printf("Failed:    %d\n", stats.Failed)
			fmt.Printf("Installed: %d\n", stats.Installed)
			return nil
		}

		if deleteID, _ := cmd.Flags().GetInt64("delete"); deleteID > 0 {
			if err := store.Delete(ctx, deleteID); err != nil {
				return err
			}
			fmt.Printf("Deleted record %d\n", deleteID)
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := store.List(ctx, limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No skills generated yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tREPOSITORY\tSKILL\tSTATUS")
		for _, r := range records {
			name := r.SkillName
			if name == "" {
				name = "-"
			}
			status := r.Status
			if r.Installed {
				status += " (installed)"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.RepoName, name, status)
		}
		return w.Flush()
	},
}

var installCmd = &cobra.Command{
	Use:   "install <skill-dir|name>",
	Short: "Install a built skill into the skills directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		packager := skill.NewPackager(utils.ExpandPath(cfg.Skill.OutputDir), cfg.Skill.InstallDir)

		// Accept either a path to a skill directory or the name of a
		// skill in the output directory.
		skillDir := args[0]
		if _, statErr := os.Stat(filepath.Join(skillDir, "SKILL.md")); statErr != nil {
			skillDir = filepath.Join(utils.ExpandPath(cfg.Skill.OutputDir), args[0])
		}
		if err := skill.Check(skillDir); err != nil {
			return err
		}

		installPath, err := packager.Install(skillDir)
		if err != nil {
			return err
		}
		fmt.Printf("Installed %s\n", installPath)
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Remove an installed skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		packager := skill.NewPackager(utils.ExpandPath(cfg.Skill.OutputDir), cfg.Skill.InstallDir)
		if err := packager.Uninstall(args[0]); err != nil {
			return err
		}
		fmt.Printf("Uninstalled %s\n", args[0])
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and dependencies",
	Long:  "Verifies network reachability, configuration, the LLM provider, and the output directories.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking configuration and dependencies...")
		allPassed := true

		fmt.Print("  GitHub reachable: ")
		if checkGitHub() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		fmt.Print("  Config file: ")
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("FAILED (%v)\n", err)
			return errors.New("configuration could not be loaded")
		}
		fmt.Println("OK")

		fmt.Print("  LLM provider: ")
		provider, err := llm.NewProvider(cfg.LLM, newLogger())
		if err != nil {
			fmt.Printf("FAILED (%v)\n", err)
			allPassed = false
		} else {
			fmt.Printf("OK (%s, model %s)\n", provider.Name(), cfg.LLM.Model)
			provider.Close()
		}

		fmt.Print("  GitHub token: ")
		if cfg.GitHub.Token != "" {
			fmt.Println("OK (set)")
		} else {
			fmt.Println("NOT SET (metadata is rate-limited, private repositories unavailable)")
		}

		fmt.Print("  Output directory: ")
		outputDir := utils.ExpandPath(cfg.Skill.OutputDir)
		if checkWritable(outputDir) {
			fmt.Printf("OK (%s)\n", outputDir)
		} else {
			fmt.Printf("FAILED (%s not writable)\n", outputDir)
			allPassed = false
		}

		fmt.Print("  History database: ")
		if !cfg.History.Enabled {
			fmt.Println("DISABLED")
		} else if store, err := history.Open(utils.ExpandPath(cfg.History.Path)); err != nil {
			fmt.Printf("FAILED (%v)\n", err)
			allPassed = false
		} else {
			store.Close()
			fmt.Println("OK")
		}

		fmt.Println()
		if allPassed {
			fmt.Println("All critical checks passed!")
		} else {
			fmt.Println("Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

func doHeadRequest(url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// checkGitHub checks whether github.com answers at all
func checkGitHub() bool {
	return headRequest("https://github.com")
}

// checkWritable checks that dir exists (or can be created) and accepts writes
func checkWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	tmp := filepath.Join(dir, ".skillforge_test_write")
	f, err := os.Create(tmp)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmp)
	return true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
