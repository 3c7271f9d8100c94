/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Builder assembles new boards from a Source.
type Builder struct {
	Source Source

	// Rand shuffles clues. Nil uses the global source.
	Rand *rand.Rand
}

func NewBuilder(src Source) *Builder {
	return &Builder{Source: src}
}

// Build fetches NumCategories categories and picks CluesPerCategory random
// clues from each. Either every category succeeds or no board is returned.
func (b *Builder) Build(ctx context.Context) (*Board, error) {
	ids, err := b.Source.RandomCategoryIDs(ctx, NumCategories)
	if err != nil {
		return nil, networkError("random categories", err)
	}
	if len(ids) < NumCategories {
		return nil, &NetworkError{
			Op:  "random categories",
			Err: fmt.Errorf("got %d category ids, want %d", len(ids), NumCategories),
		}
	}

	raws := make([]*RawCategory, NumCategories)

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids[:NumCategories] {
		g.Go(func() error {
			raw, err := b.Source.Category(gctx, id)
			if err != nil {
				return networkError(fmt.Sprintf("category %d", id), err)
			}
			if raw == nil {
				return &NetworkError{Op: fmt.Sprintf("category %d", id), Err: errors.New("empty response")}
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	board := &Board{Categories: make([]Category, 0, NumCategories)}
	for _, raw := range raws {
		cat, err := b.pick(raw)
		if err != nil {
			return nil, err
		}
		board.Categories = append(board.Categories, cat)
	}

	return board, nil
}

func (b *Builder) pick(raw *RawCategory) (Category, error) {
	usable := make([]Clue, 0, len(raw.Clues))
	for _, rc := range raw.Clues {
		q := strings.TrimSpace(rc.Question)
		a := strings.TrimSpace(rc.Answer)
		if q == "" || a == "" {
			continue
		}
		usable = append(usable, Clue{Question: q, Answer: a, Showing: Hidden})
	}

	title := strings.TrimSpace(raw.Title)

	if len(usable) < CluesPerCategory {
		return Category{}, fmt.Errorf("category %q has %d usable clues, want %d: %w",
			title, len(usable), CluesPerCategory, ErrTooFewClues)
	}

	b.shuffle(usable)

	return Category{Title: title, Clues: usable[:CluesPerCategory:CluesPerCategory]}, nil
}

func (b *Builder) shuffle(clues []Clue) {
	swap := func(i, j int) { clues[i], clues[j] = clues[j], clues[i] }
	if b.Rand != nil {
		b.Rand.Shuffle(len(clues), swap)
		return
	}
	rand.Shuffle(len(clues), swap)
}

func networkError(op string, err error) error {
	if errors.Is(err, ErrNetwork) {
		return err
	}
	return &NetworkError{Op: op, Err: err}
}
