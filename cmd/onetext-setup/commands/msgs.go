package commands

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Install and integrate the OneText editor"
	MsgInstallShort     = "Install OneText from a payload directory or archive"
	MsgUninstallShort   = "Reverse a recorded install"
	MsgStatusShort      = "Show recorded installs and their journals"
	MsgPlanShort        = "Preview an install without changing anything"
	MsgGenManifestShort = "Generate a starter setup manifest"
	MsgMimeXMLShort     = "Export association rules as shared-mime-info XML"
	MsgVersionShort     = "Print version information"
	MsgTopicsShort      = "Display available documentation topics"
	MsgTopicsLong       = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort  = "Generate shell completion script"
	MsgManShort         = "Generate man pages"

	// Status messages
	MsgManifestWritten = "Wrote %s"
	MsgManifestExists  = "%s already exists, not overwriting"

	// Error messages
	MsgErrNoCommand   = "no command specified"
	MsgErrInstall     = "install failed: %w"
	MsgErrUninstall   = "uninstall failed: %w"
	MsgErrStatus      = "status failed: %w"
	MsgErrPlan        = "plan failed: %w"
	MsgErrGenManifest = "gen-manifest failed: %w"
	MsgErrMimeXML     = "mime-xml failed: %w"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun    = "Preview changes without executing them"
	MsgFlagFormat    = "Output format: auto, term, text or json"
	MsgFlagManifest  = "Manifest file overriding the payload's manifest.toml"
	MsgFlagTargetDir = "Install into this directory instead of the manifest's choice"
	MsgFlagTask      = "Toggle an optional task, e.g. --task desktopicon=on (repeatable)"
	MsgFlagSilent    = "Suppress the license display and the post-install launch"
	MsgFlagStore     = "Store backend override: registry, file or memory"
	MsgFlagKeepFiles = "Keep deployed files, reverse only store entries and shortcuts"
	MsgFlagWrite     = "Write the manifest to disk instead of printing it"
	MsgFlagAppID     = "Application id for the generated manifest"
	MsgFlagAppName   = "Application name for the generated manifest"
	MsgFlagPublisher = "Publisher for the generated manifest"
	MsgFlagVersion   = "Application version for the generated manifest"
	MsgFlagExe       = "Executable path for the generated manifest"
	MsgFlagManDir    = "Directory to write man pages into"
)

// Long messages
const (
	MsgRootLong = `onetext-setup installs the OneText editor. It deploys the payload
into the install directory, registers file type associations in the
system store, creates shortcuts, and journals every change so that
uninstall can reverse exactly what install did.`

	MsgInstallLong = `Install deploys the payload (a directory or a zip archive), applies
the manifest's file type associations to the system store, creates
shortcuts, and records every mutation in the install journal.

The payload's manifest.toml drives the install. Optional tasks keep
their manifest defaults unless toggled with --task.`

	MsgInstallExample = `  # Install with manifest defaults
  onetext-setup install ./dist/onetext

  # Preview without touching anything
  onetext-setup install ./dist/onetext.zip --dry-run

  # Pick tasks and a custom directory
  onetext-setup install ./dist/onetext --task desktopicon=on --target-dir /opt/onetext`

	MsgUninstallLong = `Uninstall replays the install journal backwards: shortcuts are
removed, store entries are deleted or restored, and deployed files
and directories are taken away.

Entries that fail to reverse stay in the journal so a later run can
retry them. With a single recorded install the id can be omitted.`

	MsgUninstallExample = `  # Reverse the only recorded install
  onetext-setup uninstall

  # Reverse a specific install but keep the deployed files
  onetext-setup uninstall onetext --keep-files`

	MsgStatusLong = `Status lists recorded installs with their journal summary: store
entries, files, directories and shortcuts still awaiting reversal.`

	MsgPlanLong = `Plan resolves the manifest, the task selection, the file deployment
and the store operations exactly like install would, and reports the
outcome without mutating anything.`

	MsgGenManifestLong = `Gen-manifest emits a commented starter manifest. With identity flags
set it generates a tailored document instead; with --write it lands
next to you as manifest.toml. An existing file is never overwritten.`

	MsgGenManifestExample = `  # Print the starter manifest
  onetext-setup gen-manifest

  # Write a tailored manifest for another app
  onetext-setup gen-manifest --write --app-id notepad2 --app-name Notepad2 --exe notepad2.exe`

	MsgMimeXMLLong = `Mime-xml renders the manifest's association rules as a
shared-mime-info document, ready for the desktop MIME database.
Rules gated behind deselected tasks are left out.`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(onetext-setup completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ onetext-setup completion bash > /etc/bash_completion.d/onetext-setup
  # macOS:
  $ onetext-setup completion bash > /usr/local/etc/bash_completion.d/onetext-setup

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ onetext-setup completion zsh > "${fpath[1]}/_onetext-setup"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ onetext-setup completion fish | source
  # To load completions for each session, execute once:
  $ onetext-setup completion fish > ~/.config/fish/completions/onetext-setup.fish

PowerShell:
  PS> onetext-setup completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> onetext-setup completion powershell > onetext-setup.ps1
  # and source this file from your PowerShell profile.`
)

// MsgUsageTemplate is the cobra usage template with bold section
// headers wired to the template functions from formatting.go
const MsgUsageTemplate = `{{boldUpper "Usage:"}}{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "Aliases:"}}
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "Examples:"}}
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{boldUpper "Available Commands:"}}{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{bold $group.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{boldUpper "Additional Commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global Flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
