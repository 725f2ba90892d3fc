package main

import (
	"fmt"

	"github.com/leandrodaf/ewibreath/internal/logger"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/leandrodaf/ewibreath/sdk/midi"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Lists MIDI input devices",
	Long:  `Lists the MIDI inputs that --device can select, by index.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		level, err := contracts.ParseLogLevel(flags.logLevel)
		if err != nil {
			return err
		}
		// console logging; nothing else owns the terminal here
		log := logger.NewZapLogger()

		client, err := midi.NewMIDIClient(contracts.WithLogger(log), contracts.WithLogLevel(level))
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, client.Stop())
		}()

		devices, err := client.ListDevices()
		if err != nil {
			return err
		}
		return printDevices(cmd, devices)
	},
}

func printDevices(cmd *cobra.Command, devices []contracts.DeviceInfo) error {
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%-4s %-32s %s\n", "ID", "NAME", "MANUFACTURER"); err != nil {
		return err
	}
	for _, d := range devices {
		if _, err := fmt.Fprintf(out, "%-4d %-32s %s\n", d.ID, d.Name, d.Manufacturer); err != nil {
			return err
		}
	}
	return nil
}
