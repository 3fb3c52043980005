package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/service/fleet"
)

var (
	botsPath       string
	maxConcurrency int
	demoSeed       int64
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct",
	Short: "Rebuild the live state of the bots in a YAML file",
	Long: "Rebuild the live state of the bots in a YAML file. Without credentials, or when the\n" +
		"exchange rejects them, the demo fleet is printed instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var bots []model.GridBot
		if botsPath != "" {
			f, err := os.Open(botsPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if bots, err = readBots(f); err != nil {
				return err
			}
		}

		exchange := newExchange()
		orchestrator := fleet.NewOrchestrator(
			exchange,
			fleet.NewReconstructor(exchange, time.Now),
			fleet.NewSynthesizer(demoSeed, time.Now),
			maxConcurrency,
		)

		ctx, cancel := commandContext(cmd)
		defer cancel()

		return printJSON(cmd.OutOrStdout(), orchestrator.Reconstruct(ctx, credentials(), bots))
	},
}

func init() {
	reconstructCmd.Flags().StringVar(&botsPath, "bots", "", "YAML file listing bot configurations")
	reconstructCmd.Flags().IntVar(&maxConcurrency, "concurrency", 0, "bots reconstructed at once (0 = all)")
	reconstructCmd.Flags().Int64Var(&demoSeed, "seed", fleet.DefaultDemoSeed, "demo data seed")
}
