package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kuchen/config"
	"kuchen/provider"
)

var version = "dev"

const (
	exitOK     = 0
	exitError  = 1
	exitConfig = 2
)

// globalFlags are shared by every command. Non-empty values override the config file.
type globalFlags struct {
	configPath string
	logPath    string
	debug      bool
	provider   string
	model      string
	format     string
	device     string
	lang       string
	mute       bool
}

func (g *globalFlags) load() (config.Config, error) {
	path, required := g.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	file, err := config.Load(path, required)
	if err != nil {
		return file, err
	}
	return config.Merge(file, config.Config{
		Provider: g.provider,
		Model:    g.model,
		Format:   g.format,
		Device:   g.device,
		LogPath:  g.logPath,
		Lang:     g.lang,
		Mute:     g.mute,
	})
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}
	var setup bool

	cmd := &cobra.Command{
		Use:   "kuchen",
		Short: "TestDaF speaking exam practice in the terminal",
		Long: `kuchen simulates the TestDaF speaking section.

Pick one of seven tasks, read a generated task card, prepare and speak under
the exam's countdowns, and get written feedback on the recording.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), g, setup)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	pf.StringVar(&g.logPath, "logpath", "", "log directory (default: OS-specific location, use ./ for current dir)")
	pf.BoolVar(&g.debug, "debug", false, "enable debug logging")
	pf.StringVar(&g.provider, "provider", "", "content provider: gemini, openai or fake (default: from API keys)")
	pf.StringVar(&g.model, "model", "", "model name for the provider")
	pf.StringVar(&g.format, "format", "", "recording format: wav, flac or auto (default: provider's choice)")
	pf.StringVar(&g.lang, "lang", "", "translated instructions: zh or none")
	pf.BoolVar(&g.mute, "mute", false, "disable cue sounds")

	pf.StringVar(&g.device, "device", "", "use the named microphone")
	cmd.Flags().BoolVar(&setup, "setup", false, "select the microphone interactively")

	cmd.AddCommand(newTasksCommand())
	cmd.AddCommand(newDoctorCommand(g))
	cmd.AddCommand(newScriptCommand(g))
	return cmd
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrInvalid), errors.Is(err, provider.ErrNoProvider):
		return exitConfig
	}
	return exitError
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
