package main

import (
	"time"

	"github.com/spf13/cobra"

	"kuchen/audio"
	"kuchen/beep"
	"kuchen/catalog"
	"kuchen/encoder"
	"kuchen/log"
	"kuchen/provider"
	"kuchen/recorder"
	"kuchen/session"
)

type scriptFlags struct {
	wav  string
	tone time.Duration
	tick time.Duration
}

func newScriptCommand(g *globalFlags) *cobra.Command {
	f := &scriptFlags{}
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Run sessions headless, driven by commands on stdin",
		Long: `Run the practice shell without a terminal UI. Commands are read from stdin,
one per line: SELECT n, START, SKIP, STOP, RETRY, EXIT, WAIT [event], SLEEP ms, QUIT.
Events (stage changes and the final report) are printed to stdout.

The microphone is replaced by a WAV file (--wav) or a synthetic tone (--tone).
Without API keys the fake provider is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			initLogging(cfg, g.debug)
			defer log.Close()
			beep.Disable()

			name := cfg.Provider
			if name == "" && provider.Detect() == "" {
				name = provider.NameFake
			}
			p, err := provider.New(cmd.Context(), name, cfg.Model)
			if err != nil {
				return err
			}
			defer closeProvider(p)

			var actx audio.Context
			if f.wav != "" {
				fc, err := audio.NewFakeContext(f.wav, true)
				if err != nil {
					return err
				}
				actx = fc
			} else {
				actx = audio.NewToneContext(encoder.SampleRate, f.tone)
			}

			deps := shellDeps{
				tasks:       catalog.All(),
				provider:    p,
				recorder:    recorder.New(actx, nil, recordingFormat(cfg, p)),
				sessionOpts: session.Options{TickInterval: f.tick},
				status:      p.Name(),
			}
			return runScript(deps, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&f.wav, "wav", "", "16 kHz mono WAV file played as microphone input")
	cmd.Flags().DurationVar(&f.tone, "tone", 3*time.Second, "length of the synthetic tone when no --wav is given")
	cmd.Flags().DurationVar(&f.tick, "tick", time.Second, "countdown tick interval")
	return cmd
}
