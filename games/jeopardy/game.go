/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
)

// Game is the state of one trivia session: the current board, whether a
// new one is being built, and the generation that build belongs to.
//
// Game is not safe for concurrent use. One goroutine owns it; setup
// results computed elsewhere are handed back through Apply.
type Game struct {
	board      *Board
	loading    bool
	generation uint64
	err        error
}

func NewGame() *Game {
	return &Game{}
}

// Begin starts a new setup. The current board is dropped and the
// returned token must accompany the result passed to Apply.
func (g *Game) Begin() uint64 {
	g.generation++
	g.board = nil
	g.loading = true
	g.err = nil

	return g.generation
}

// Apply publishes the result of the setup identified by gen. Results from
// superseded setups are ignored and Apply reports false.
func (g *Game) Apply(gen uint64, board *Board, err error) bool {
	if gen != g.generation || !g.loading {
		return false
	}

	g.loading = false

	if err != nil {
		g.board = nil
		g.err = err
		return true
	}

	g.board = board
	g.err = nil

	return true
}

// Restart builds a new board in place and applies it.
func (g *Game) Restart(ctx context.Context, b *Builder) error {
	gen := g.Begin()
	board, err := b.Build(ctx)
	g.Apply(gen, board, err)

	return err
}

func (g *Game) Reveal(col, row int) (Reveal, error) {
	if g.board == nil {
		return Reveal{}, ErrNoBoard
	}

	return g.board.Reveal(col, row)
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) Loading() bool {
	return g.loading
}

func (g *Game) Generation() uint64 {
	return g.generation
}

func (g *Game) Err() error {
	return g.err
}

// View is what a client needs to draw the board.
type View struct {
	Generation uint64       `json:"generation"`
	Loading    bool         `json:"loading"`
	Error      string       `json:"error,omitempty"`
	Titles     []string     `json:"titles"`
	Rows       [][]CellView `json:"rows"`
}

// CellView is a single cell as displayed.
type CellView struct {
	Col     int     `json:"col"`
	Row     int     `json:"row"`
	Showing Showing `json:"showing"`
	Text    string  `json:"text"`
}

// Snapshot renders the game as rows of cells, row-major like the grid.
// Hidden cells never carry their question or answer.
func (g *Game) Snapshot() View {
	v := View{
		Generation: g.generation,
		Loading:    g.loading,
		Titles:     []string{},
		Rows:       [][]CellView{},
	}

	if g.err != nil {
		v.Error = g.err.Error()
	}

	if g.board == nil {
		return v
	}

	rows := 0
	for _, cat := range g.board.Categories {
		v.Titles = append(v.Titles, cat.Title)
		rows = max(rows, len(cat.Clues))
	}

	for row := range rows {
		cells := make([]CellView, 0, len(g.board.Categories))
		for col, cat := range g.board.Categories {
			if row >= len(cat.Clues) {
				continue
			}
			clue := cat.Clues[row]
			cells = append(cells, CellView{
				Col:     col,
				Row:     row,
				Showing: clue.Showing,
				Text:    clue.Text(),
			})
		}
		v.Rows = append(v.Rows, cells)
	}

	return v
}
