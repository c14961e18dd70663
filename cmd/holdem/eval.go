package main

import (
	"fmt"
	"strings"

	"github.com/lox/holdem/internal/bot"
	"github.com/lox/holdem/poker"
)

type EvalCmd struct {
	Cards []string `arg:"" help:"Cards such as 'As Kd' or 'AsKd7h'; the first two are hole cards"`
}

func (c *EvalCmd) Run(g *Globals) error {
	cards, err := poker.ParseCards(strings.Join(c.Cards, ""))
	if err != nil {
		return err
	}
	if len(cards) < 5 || len(cards) > 7 {
		return fmt.Errorf("need five to seven cards, got %d", len(cards))
	}
	seen := make(map[poker.Card]bool, len(cards))
	for _, card := range cards {
		if seen[card] {
			return fmt.Errorf("card %s appears twice", card)
		}
		seen[card] = true
	}

	hole, board := cards[:2], cards[2:]
	value := poker.Evaluate(hole, board)
	fmt.Fprintf(g.Stdout, "%s  %s\n", renderCards(cards), handInfoStyle.Render(value.String()))
	fmt.Fprintf(g.Stdout, "%s %s\n", infoStyle.Render("best five:"), renderCards(value.Cards))
	fmt.Fprintf(g.Stdout, "%s %s, %s board\n", infoStyle.Render("strength:"), bot.Strength(hole, board), bot.Texture(board))
	return nil
}

type StrategiesCmd struct{}

func (c *StrategiesCmd) Run(g *Globals) error {
	for _, name := range bot.Strategies() {
		fmt.Fprintln(g.Stdout, name)
	}
	return nil
}
