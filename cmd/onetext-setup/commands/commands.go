package commands

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/codename-B/OneText/internal/version"
	"github.com/codename-B/OneText/pkg/cobrax/topics"
	"github.com/codename-B/OneText/pkg/commands/genmanifest"
	"github.com/codename-B/OneText/pkg/commands/install"
	"github.com/codename-B/OneText/pkg/commands/mimexml"
	"github.com/codename-B/OneText/pkg/commands/plan"
	"github.com/codename-B/OneText/pkg/commands/status"
	"github.com/codename-B/OneText/pkg/commands/uninstall"
	"github.com/codename-B/OneText/pkg/deploy"
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/logging"
	"github.com/codename-B/OneText/pkg/manifest"
	"github.com/codename-B/OneText/pkg/ui"
	"github.com/codename-B/OneText/pkg/utils"
)

// Help topics shipped inside the binary
//
//go:embed topics
var topicsFS embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity int
		dryRun    bool
		format    string
	)

	rootCmd := &cobra.Command{
		Use:     "onetext-setup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			// Show help but return an error to indicate incorrect usage
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&format, "format", "auto", MsgFlagFormat)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newUninstallCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newGenManifestCmd())
	rootCmd.AddCommand(newMimeXMLCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	// Initialize topic-based help system from the embedded docs
	if sub, err := fs.Sub(topicsFS, "topics"); err == nil {
		opts := topics.Options{
			Extensions: []string{".md"},
			// Always use Glamour renderer for markdown files
			Renderer: topics.NewGlamourRenderer(),
		}
		if err := topics.Initialize(rootCmd, sub, opts); err != nil {
			log.Warn().Err(err).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}

// outputFormat resolves the persistent --format flag against stdout
func outputFormat(cmd *cobra.Command) (ui.Format, error) {
	value, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := ui.FromFlag(value, os.Stdout)
	if err != nil {
		return format, errors.Wrap(err, errors.ErrInvalidInput, "bad --format value")
	}
	return format, nil
}

// parseTaskChoices turns repeated --task name=on|off values into the
// selection override map. A bare name counts as on.
func parseTaskChoices(values []string) (map[string]bool, error) {
	if len(values) == 0 {
		return nil, nil
	}
	choices := make(map[string]bool, len(values))
	for _, value := range values {
		name, state, explicit := strings.Cut(value, "=")
		if name == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "missing task name in --task %q", value)
		}
		if !explicit {
			choices[name] = true
			continue
		}
		switch strings.ToLower(state) {
		case "on", "true", "yes":
			choices[name] = true
		case "off", "false", "no":
			choices[name] = false
		default:
			return nil, errors.Newf(errors.ErrInvalidInput, "task %q wants on or off, got %q", name, state)
		}
	}
	return choices, nil
}

// installIDsCompletion completes install ids from the journal directory
func installIDsCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	installs, err := status.Status(status.StatusOptions{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ids := make([]string, 0, len(installs))
	for _, inst := range installs {
		ids = append(ids, inst.InstallID)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func newInstallCmd() *cobra.Command {
	var (
		manifestPath string
		targetDir    string
		taskFlags    []string
		silent       bool
		storeBackend string
	)

	cmd := &cobra.Command{
		Use:     "install <payload>",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			choices, err := parseTaskChoices(taskFlags)
			if err != nil {
				return err
			}

			// Get dry-run flag value (it's a persistent flag)
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			log.Info().
				Str("payload", args[0]).
				Bool("dry_run", dryRun).
				Msg("Installing payload")

			var reporter deploy.Reporter
			if silent {
				reporter = ui.NewLogReporter()
			} else {
				reporter = ui.NewProgressReporter(os.Stdout, format)
			}

			result, err := install.Install(install.InstallOptions{
				Payload:      utils.ExpandPath(args[0]),
				ManifestPath: utils.ExpandPath(manifestPath),
				TargetDir:    utils.ExpandPath(targetDir),
				TaskChoices:  choices,
				Silent:       silent,
				DryRun:       dryRun,
				StoreBackend: storeBackend,
				Format:       format,
				Out:          os.Stdout,
				Reporter:     reporter,
			})
			if err != nil {
				return fmt.Errorf(MsgErrInstall, err)
			}

			return ui.NewRenderer(os.Stdout, format).Install(result)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", MsgFlagManifest)
	cmd.Flags().StringVar(&targetDir, "target-dir", "", MsgFlagTargetDir)
	cmd.Flags().StringArrayVar(&taskFlags, "task", nil, MsgFlagTask)
	cmd.Flags().BoolVar(&silent, "silent", false, MsgFlagSilent)
	cmd.Flags().StringVar(&storeBackend, "store", "", MsgFlagStore)

	return cmd
}

func newUninstallCmd() *cobra.Command {
	var (
		keepFiles    bool
		storeBackend string
	)

	cmd := &cobra.Command{
		Use:               "uninstall [install-id]",
		Short:             MsgUninstallShort,
		Long:              MsgUninstallLong,
		Example:           MsgUninstallExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: installIDsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			installID := ""
			if len(args) == 1 {
				installID = args[0]
			}

			// Get dry-run flag value (it's a persistent flag)
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			log.Info().
				Str("install_id", installID).
				Bool("dry_run", dryRun).
				Msg("Uninstalling")

			result, err := uninstall.Uninstall(uninstall.UninstallOptions{
				InstallID:    installID,
				KeepFiles:    keepFiles,
				DryRun:       dryRun,
				StoreBackend: storeBackend,
			})
			if err != nil {
				return fmt.Errorf(MsgErrUninstall, err)
			}

			return ui.NewRenderer(os.Stdout, format).Uninstall(result)
		},
	}

	cmd.Flags().BoolVar(&keepFiles, "keep-files", false, MsgFlagKeepFiles)
	cmd.Flags().StringVar(&storeBackend, "store", "", MsgFlagStore)

	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "status [install-id]",
		Short:             MsgStatusShort,
		Long:              MsgStatusLong,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: installIDsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			installID := ""
			if len(args) == 1 {
				installID = args[0]
			}

			installs, err := status.Status(status.StatusOptions{
				InstallID: installID,
			})
			if err != nil {
				return fmt.Errorf(MsgErrStatus, err)
			}

			return ui.NewRenderer(os.Stdout, format).Status(installs)
		},
	}
}

func newPlanCmd() *cobra.Command {
	var (
		manifestPath string
		targetDir    string
		taskFlags    []string
		storeBackend string
	)

	cmd := &cobra.Command{
		Use:     "plan <payload>",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			choices, err := parseTaskChoices(taskFlags)
			if err != nil {
				return err
			}

			result, err := plan.Plan(plan.PlanOptions{
				Payload:      utils.ExpandPath(args[0]),
				ManifestPath: utils.ExpandPath(manifestPath),
				TargetDir:    utils.ExpandPath(targetDir),
				TaskChoices:  choices,
				StoreBackend: storeBackend,
			})
			if err != nil {
				return fmt.Errorf(MsgErrPlan, err)
			}

			return ui.NewRenderer(os.Stdout, format).Install(result)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", MsgFlagManifest)
	cmd.Flags().StringVar(&targetDir, "target-dir", "", MsgFlagTargetDir)
	cmd.Flags().StringArrayVar(&taskFlags, "task", nil, MsgFlagTask)
	cmd.Flags().StringVar(&storeBackend, "store", "", MsgFlagStore)

	return cmd
}

func newGenManifestCmd() *cobra.Command {
	var (
		write     bool
		appID     string
		appName   string
		publisher string
		appVer    string
		exe       string
	)

	cmd := &cobra.Command{
		Use:     "gen-manifest [path]",
		Short:   MsgGenManifestShort,
		Long:    MsgGenManifestLong,
		Example: MsgGenManifestExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			outPath := manifest.DefaultFileName
			if len(args) == 1 {
				outPath = utils.ExpandPath(args[0])
			}

			result, err := genmanifest.GenManifest(genmanifest.GenManifestOptions{
				AppID:      appID,
				AppName:    appName,
				Publisher:  publisher,
				Version:    appVer,
				Executable: exe,
				Write:      write,
				Path:       outPath,
			})
			if err != nil {
				return fmt.Errorf(MsgErrGenManifest, err)
			}

			if !write {
				fmt.Fprint(os.Stdout, result.Content)
				return nil
			}

			renderer := ui.NewRenderer(os.Stdout, format)
			if result.Path == "" {
				renderer.Message(fmt.Sprintf(MsgManifestExists, outPath))
				return nil
			}
			renderer.Message(fmt.Sprintf(MsgManifestWritten, result.Path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().StringVar(&appID, "app-id", "", MsgFlagAppID)
	cmd.Flags().StringVar(&appName, "app-name", "", MsgFlagAppName)
	cmd.Flags().StringVar(&publisher, "publisher", "", MsgFlagPublisher)
	cmd.Flags().StringVar(&appVer, "app-version", "", MsgFlagVersion)
	cmd.Flags().StringVar(&exe, "exe", "", MsgFlagExe)

	return cmd
}

func newMimeXMLCmd() *cobra.Command {
	var (
		manifestPath string
		taskFlags    []string
	)

	cmd := &cobra.Command{
		Use:     "mime-xml",
		Short:   MsgMimeXMLShort,
		Long:    MsgMimeXMLLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			choices, err := parseTaskChoices(taskFlags)
			if err != nil {
				return err
			}

			content, err := mimexml.MimeXML(mimexml.MimeXMLOptions{
				ManifestPath: utils.ExpandPath(manifestPath),
				TaskChoices:  choices,
			})
			if err != nil {
				return fmt.Errorf(MsgErrMimeXML, err)
			}

			fmt.Fprint(os.Stdout, content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", MsgFlagManifest)
	cmd.Flags().StringArrayVar(&taskFlags, "task", nil, MsgFlagTask)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("onetext-setup version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     MsgCompletionShort,
		Long:      MsgCompletionLong,
		GroupID:   "misc",
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate bash completion")
				}
			case "zsh":
				if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate zsh completion")
				}
			case "fish":
				if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
					log.Error().Err(err).Msg("Failed to generate fish completion")
				}
			case "powershell":
				if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
					log.Error().Err(err).Msg("Failed to generate powershell completion")
				}
			}
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "ONETEXT-SETUP",
				Section: "1",
			}
			return doc.GenManTree(cmd.Root(), header, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagManDir)

	return cmd
}
