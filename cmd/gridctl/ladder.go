package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/service/fleet"
)

var ladderType string

var ladderCmd = &cobra.Command{
	Use:   "ladder LOWER UPPER COUNT",
	Short: "Print the price levels of a grid",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		lower, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("lower: %w", err)
		}
		upper, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("upper: %w", err)
		}
		count, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}

		levels, err := fleet.Preview(lower, upper, count, model.GridType(ladderType))
		if err != nil {
			return err
		}
		for i, level := range levels {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i, strconv.FormatFloat(level, 'f', -1, 64))
		}
		return nil
	},
}

func init() {
	ladderCmd.Flags().StringVar(&ladderType, "type", string(model.GridArithmetic), "arithmetic or geometric")
}
