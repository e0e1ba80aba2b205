// Package topics provides a topic-based help system for Cobra
// applications. Topics come from an fs.FS, usually embedded in the
// binary, so the CLI documents itself without shipping loose files.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help page
type Topic struct {
	Name    string
	Ext     string
	Content string
}

// Options configures the topic system
type Options struct {
	// Extensions lists the file extensions treated as topics.
	// Defaults to .txt and .md.
	Extensions []string

	// Renderer formats topic content for display, default PlainRenderer
	Renderer Renderer
}

// Manager resolves help topics by name
type Manager struct {
	topics       map[string]*Topic
	extensions   []string
	renderer     Renderer
	originalHelp func(*cobra.Command, []string)
}

// New creates a Manager over the topic files in fsys
func New(fsys fs.FS, opts Options) (*Manager, error) {
	m := &Manager{
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".txt", ".md"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}

	if err := m.scan(fsys); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}
	return m, nil
}

func (m *Manager) scan(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := path.Ext(p)
		supported := false
		for _, validExt := range m.extensions {
			if ext == validExt {
				supported = true
				break
			}
		}
		if !supported {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{
			Name:    name,
			Ext:     ext,
			Content: string(content),
		}
		return nil
	})
}

// Get retrieves a topic by name. Flag spellings resolve to their
// option topic, so "--dry-run" finds "option-dry-run".
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if topic, exists := m.topics[name]; exists {
		return topic, true
	}
	topic, exists := m.topics["option-"+name]
	return topic, exists
}

// List returns all topic names, sorted
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) render(topic *Topic) string {
	return m.renderer.Render(topic.Content, topic.Ext)
}

// Initialize wires the topic system into rootCmd: the help command
// learns the topics, "help topics" lists them, and --help with a topic
// name shows the topic.
func Initialize(rootCmd *cobra.Command, fsys fs.FS, opts Options) error {
	m, err := New(fsys, opts)
	if err != nil {
		return err
	}

	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				m.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				m.printTopicList(cmd, rootCmd.Name())
				return
			}

			if topic, exists := m.Get(args[0]); exists {
				fmt.Fprint(out, m.render(topic))
				return
			}

			// Not a topic: resolve the command and show its help
			if target, _, err := rootCmd.Find(args); err == nil && target != rootCmd {
				_ = target.Help()
				return
			}
			m.originalHelp(rootCmd, args)
		},
	}

	rootCmd.SetHelpCommand(helpCmd)

	// --help with a topic argument shows the topic too
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, exists := m.Get(args[0]); exists {
				fmt.Fprint(cmd.OutOrStdout(), m.render(topic))
				return
			}
		}
		m.originalHelp(cmd, args)
	})

	return nil
}

func (m *Manager) printTopicList(cmd *cobra.Command, appName string) {
	out := cmd.OutOrStdout()

	names := m.List()
	if len(names) == 0 {
		fmt.Fprintln(out, "No help topics available.")
		return
	}

	var options []string
	var general []string
	for _, name := range names {
		if strings.HasPrefix(name, "option-") {
			options = append(options, strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(out, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(out, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(out, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(out, "  --%s\n", name)
		}
	}
	fmt.Fprintf(out, "\nUse '%s help <topic>' to read about a specific topic.\n", appName)
}
