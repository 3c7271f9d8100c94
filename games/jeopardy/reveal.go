/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"fmt"
)

// Reveal reports the outcome of clicking a cell.
type Reveal struct {
	Text    string  `json:"text"`
	Showing Showing `json:"showing"`
	Changed bool    `json:"changed"`
}

// Clue returns the clue at column col, row row.
func (b *Board) Clue(col, row int) (*Clue, error) {
	if col < 0 || col >= len(b.Categories) {
		return nil, fmt.Errorf("%w: column %d of %d", ErrIndex, col, len(b.Categories))
	}

	clues := b.Categories[col].Clues
	if row < 0 || row >= len(clues) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrIndex, row, len(clues))
	}

	return &clues[row], nil
}

// Reveal advances the clue at (col, row) one step:
// hidden shows the question, question shows the answer, answer stays put.
func (b *Board) Reveal(col, row int) (Reveal, error) {
	clue, err := b.Clue(col, row)
	if err != nil {
		return Reveal{}, err
	}

	switch clue.Showing {
	case Hidden:
		clue.Showing = Question
		return Reveal{Text: clue.Question, Showing: Question, Changed: true}, nil
	case Question:
		clue.Showing = Answer
		return Reveal{Text: clue.Answer, Showing: Answer, Changed: true}, nil
	default:
		return Reveal{Text: clue.Answer, Showing: Answer}, nil
	}
}

// Text is what a cell currently displays.
func (c Clue) Text() string {
	switch c.Showing {
	case Question:
		return c.Question
	case Answer:
		return c.Answer
	default:
		return "?"
	}
}
