package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"regolith/internal/pid"
)

func newPIDCommand(ctx *commandContext) *cobra.Command {
	pidCmd := &cobra.Command{
		Use:   "pid",
		Short: "Decode, encode, and rank product identifiers",
	}

	pidCmd.AddCommand(newPIDDecodeCommand(ctx))
	pidCmd.AddCommand(newPIDEncodeCommand(ctx))
	pidCmd.AddCommand(newPIDBestCommand(ctx))

	return pidCmd
}

func newPIDDecodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token>...",
		Short: "Parse identifier tokens into their fields",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := contextCodec(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, token := range args {
				id, err := codec.Decode(token)
				if err != nil {
					return err
				}
				name, err := pid.InstrumentName(id.Instrument)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n", token)
				fmt.Fprintf(out, "  time:       %s\n", id.Time.Format("2006-01-02T15:04:05.000Z"))
				fmt.Fprintf(out, "  sequence:   %d\n", id.Sequence)
				fmt.Fprintf(out, "  instrument: %s (%s)\n", id.Instrument, name)
				fmt.Fprintf(out, "  state:      %s (%s)\n", id.State, id.State.Class())
				if id.SubProduct != "" {
					fmt.Fprintf(out, "  product:    %s\n", id.SubProduct)
				}
			}
			return nil
		},
	}
}

func newPIDEncodeCommand(ctx *commandContext) *cobra.Command {
	var timeFlag string
	var sequence int
	var instrument string
	var state string
	var subProduct string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Render identifier fields as a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := contextCodec(ctx)
			if err != nil {
				return err
			}

			t, err := parseAcquisitionTime(timeFlag)
			if err != nil {
				return &usageError{err: err}
			}
			parsedState, err := pid.ParseState(state)
			if err != nil {
				return err
			}

			token, err := codec.Encode(pid.ProductID{
				Time:       t,
				Sequence:   sequence,
				Instrument: instrument,
				State:      parsedState,
				SubProduct: subProduct,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&timeFlag, "time", "", "Acquisition time, RFC 3339 UTC (required)")
	cmd.Flags().IntVar(&sequence, "sequence", 0, "Capture sequence number")
	cmd.Flags().StringVar(&instrument, "instrument", "", "Instrument code or alias (required)")
	cmd.Flags().StringVar(&state, "state", "", "Processing state code (required)")
	cmd.Flags().StringVar(&subProduct, "product", "", "Sub-product discriminator")
	_ = cmd.MarkFlagRequired("time")
	_ = cmd.MarkFlagRequired("instrument")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newPIDBestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "best <token>...",
		Short: "Pick the highest-quality identifier among the given tokens",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := contextCodec(ctx)
			if err != nil {
				return err
			}

			ids := make([]pid.ProductID, 0, len(args))
			for _, token := range args {
				id, err := codec.Decode(token)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			best, err := pid.Best(ids)
			if err != nil {
				return err
			}
			for i, id := range ids {
				if id.Equal(best) {
					fmt.Fprintln(cmd.OutOrStdout(), args[i])
					return nil
				}
			}
			return nil
		},
	}
}

func contextCodec(ctx *commandContext) (*pid.Codec, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Codec()
}

func parseAcquisitionTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("acquisition time is required")
	}
	t, err := time.Parse(time.RFC3339Nano, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse acquisition time %q: %w", trimmed, err)
	}
	return t.UTC(), nil
}
