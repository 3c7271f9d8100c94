/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package jeopardy holds the trivia board: fetching categories and clues,
// building a fresh 6x5 board, and revealing clues one click at a time.
package jeopardy

import (
	"fmt"
)

const (
	NumCategories    = 6
	CluesPerCategory = 5
)

// Showing is the reveal state of a single clue.
type Showing int

const (
	Hidden Showing = iota
	Question
	Answer
)

func (s Showing) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Question:
		return "question"
	case Answer:
		return "answer"
	default:
		return fmt.Sprintf("Showing(%d)", int(s))
	}
}

func (s Showing) MarshalText() ([]byte, error) {
	switch s {
	case Hidden, Question, Answer:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid showing value %d", int(s))
	}
}

func (s *Showing) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hidden":
		*s = Hidden
	case "question":
		*s = Question
	case "answer":
		*s = Answer
	default:
		return fmt.Errorf("invalid showing value %q", b)
	}
	return nil
}

// Clue is one question/answer pair and how much of it is on screen.
type Clue struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Showing  Showing `json:"showing"`
}

// Category is one column of the board.
type Category struct {
	Title string `json:"title"`
	Clues []Clue `json:"clues"`
}

// Board is every category for one game. It is replaced wholesale on restart.
type Board struct {
	Categories []Category `json:"categories"`
}
