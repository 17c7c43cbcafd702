package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kuchen/audio"
	"kuchen/clipboard"
	"kuchen/doctor"
	"kuchen/log"
	"kuchen/provider"
)

var errChecksFailed = errors.New("doctor: some checks failed")

func newDoctorCommand(g *globalFlags) *cobra.Command {
	var recordFor time.Duration
	var noClipboard bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the log directory, provider, microphone and clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			initLogging(cfg, g.debug)
			defer log.Close()

			opts := doctor.Options{
				Out:       cmd.OutOrStdout(),
				LogDir:    log.Dir(),
				Format:    cfg.Format,
				Device:    cfg.Device,
				RecordFor: recordFor,
				Audio:     audio.NewContext,
			}
			p, err := provider.New(cmd.Context(), cfg.Provider, cfg.Model)
			switch {
			case err == nil:
				defer closeProvider(p)
				opts.Provider = p
			case errors.Is(err, provider.ErrNoProvider):
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			default:
				return err
			}
			if !noClipboard {
				opts.Copy, opts.Read = clipboard.Copy, clipboard.Read
			}

			if doctor.Run(opts) != 0 {
				return errChecksFailed
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&recordFor, "record", 3*time.Second, "length of the microphone test recording")
	cmd.Flags().BoolVar(&noClipboard, "no-clipboard", false, "skip the clipboard check")
	return cmd
}
