package main

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"gridwatch/backend/internal/model"
)

// botFile is the YAML document read by "gridctl reconstruct":
//
//	bots:
//	  - id: btc-main
//	    pair: BTC/USDT
//	    lowerLimit: 62000
//	    upperLimit: 72000
//	    gridCount: 20
//	    gridType: arithmetic
//	    investment: 5000
//	    startedAt: 2024-05-01T00:00:00Z
type botFile struct {
	Bots []botEntry `yaml:"bots"`
}

type botEntry struct {
	ID         string  `yaml:"id"`
	Pair       string  `yaml:"pair"`
	LowerLimit float64 `yaml:"lowerLimit"`
	UpperLimit float64 `yaml:"upperLimit"`
	GridCount  int     `yaml:"gridCount"`
	GridType   string  `yaml:"gridType"`
	Investment float64 `yaml:"investment"`
	StartedAt  string  `yaml:"startedAt"`
	Notes      string  `yaml:"notes"`
}

// readBots decodes and validates every entry. Entries without an id are numbered.
func readBots(r io.Reader) ([]model.GridBot, error) {
	var file botFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode bot file: %w", err)
	}

	bots := make([]model.GridBot, 0, len(file.Bots))
	for i, entry := range file.Bots {
		startedAt, err := time.Parse(time.RFC3339, entry.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("bot %d: startedAt: %w", i+1, err)
		}

		req := &model.CreateBotRequest{
			Pair:       entry.Pair,
			UpperLimit: entry.UpperLimit,
			LowerLimit: entry.LowerLimit,
			GridCount:  entry.GridCount,
			GridType:   model.GridType(entry.GridType),
			Investment: entry.Investment,
			StartedAt:  startedAt,
		}
		if entry.Notes != "" {
			notes := entry.Notes
			req.Notes = &notes
		}

		bot, err := model.NewGridBot("", req)
		if err != nil {
			return nil, fmt.Errorf("bot %d: %w", i+1, err)
		}
		bot.ID = entry.ID
		if bot.ID == "" {
			bot.ID = fmt.Sprintf("bot-%d", i+1)
		}
		bots = append(bots, *bot)
	}
	return bots, nil
}
