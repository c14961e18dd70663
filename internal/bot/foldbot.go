package bot

import (
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/table"
)

// Folder checks when it can and folds to any bet
type Folder struct{}

// NewFolder creates a Folder
func NewFolder() *Folder {
	return &Folder{}
}

func (f *Folder) MakeDecision(_ game.Snapshot, legal game.Legal) table.Decision {
	return prefer(legal, "folder", game.Check, game.Fold)
}
