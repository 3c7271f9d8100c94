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
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeSource struct {
	ids     []int
	idsErr  error
	cats    map[int]*RawCategory
	catErrs map[int]error
}

func (f *fakeSource) RandomCategoryIDs(_ context.Context, count int) ([]int, error) {
	if f.idsErr != nil {
		return nil, f.idsErr
	}
	if len(f.ids) > count {
		return f.ids[:count], nil
	}
	return f.ids, nil
}

func (f *fakeSource) Category(_ context.Context, id int) (*RawCategory, error) {
	if err := f.catErrs[id]; err != nil {
		return nil, err
	}
	cat, ok := f.cats[id]
	if !ok {
		return nil, fmt.Errorf("no category %d", id)
	}
	return cat, nil
}

func rawClues(title string, n int) []RawClue {
	clues := make([]RawClue, n)
	for i := range clues {
		clues[i] = RawClue{
			Question: fmt.Sprintf("%s question %d", title, i),
			Answer:   fmt.Sprintf("%s answer %d", title, i),
		}
	}
	return clues
}

func newFakeSource(titles []string, cluesPer int) *fakeSource {
	f := &fakeSource{cats: make(map[int]*RawCategory)}
	for i, title := range titles {
		id := 100 + i
		f.ids = append(f.ids, id)
		f.cats[id] = &RawCategory{ID: id, Title: title, Clues: rawClues(title, cluesPer)}
	}
	return f
}

var testTitles = []string{"Math", "History", "Film", "Sports", "Music", "Art"}

func TestBuildFillsBoard(t *testing.T) {
	b := &Builder{Source: newFakeSource(testTitles, 12), Rand: rand.New(rand.NewPCG(1, 2))}

	board, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(board.Categories) != NumCategories {
		t.Fatalf("expected %d categories, got %d", NumCategories, len(board.Categories))
	}

	for col, cat := range board.Categories {
		if cat.Title != testTitles[col] {
			t.Errorf("column %d: expected title %q, got %q", col, testTitles[col], cat.Title)
		}
		if len(cat.Clues) != CluesPerCategory {
			t.Fatalf("column %d: expected %d clues, got %d", col, CluesPerCategory, len(cat.Clues))
		}

		seen := make(map[string]bool)
		for row, clue := range cat.Clues {
			if clue.Showing != Hidden {
				t.Errorf("clue (%d,%d) starts %v, want hidden", col, row, clue.Showing)
			}
			if !strings.HasPrefix(clue.Question, cat.Title+" question ") {
				t.Errorf("clue (%d,%d) question %q is not from %q", col, row, clue.Question, cat.Title)
			}
			if seen[clue.Question] {
				t.Errorf("clue (%d,%d) question %q picked twice", col, row, clue.Question)
			}
			seen[clue.Question] = true
		}
	}
}

func TestBuildIsReproducibleWithSeededRand(t *testing.T) {
	src := newFakeSource(testTitles, 20)

	first, err := (&Builder{Source: src, Rand: rand.New(rand.NewPCG(7, 7))}).Build(context.Background())
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := (&Builder{Source: src, Rand: rand.New(rand.NewPCG(7, 7))}).Build(context.Background())
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("boards differ for the same seed (-first +second)\n%s", diff)
	}
}

func TestBuildDoesNotAliasSourceClues(t *testing.T) {
	src := newFakeSource(testTitles, CluesPerCategory)
	before := append([]RawClue(nil), src.cats[100].Clues...)

	if _, err := NewBuilder(src).Build(context.Background()); err != nil {
		t.Fatalf("build: %v", err)
	}

	if diff := cmp.Diff(before, src.cats[100].Clues); diff != "" {
		t.Errorf("source clues were modified (-before +after)\n%s", diff)
	}
}

func TestBuildTooFewClues(t *testing.T) {
	src := newFakeSource(testTitles, 8)
	src.cats[103].Clues = rawClues("Sports", CluesPerCategory-1)

	board, err := NewBuilder(src).Build(context.Background())
	if board != nil {
		t.Fatal("expected no board when a category is short")
	}
	if !errors.Is(err, ErrTooFewClues) {
		t.Fatalf("expected ErrTooFewClues, got %v", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected short categories to count as network errors, got %v", err)
	}
}

func TestBuildSkipsBlankClues(t *testing.T) {
	src := newFakeSource(testTitles, 0)
	src.cats[102].Clues = []RawClue{
		{Question: "q0", Answer: "a0"},
		{Question: "  ", Answer: "a1"},
		{Question: "q2", Answer: ""},
		{Question: " q3 ", Answer: " a3 "},
		{Question: "q4", Answer: "a4"},
		{Question: "q5", Answer: "a5"},
		{Question: "q6", Answer: "a6"},
	}
	for id, cat := range src.cats {
		if id != 102 {
			cat.Clues = rawClues(cat.Title, CluesPerCategory)
		}
	}

	board, err := NewBuilder(src).Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got := make(map[string]string)
	for _, clue := range board.Categories[2].Clues {
		got[clue.Question] = clue.Answer
	}
	want := map[string]string{"q0": "a0", "q3": "a3", "q4": "a4", "q5": "a5", "q6": "a6"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected clues (-want +got)\n%s", diff)
	}

	src.cats[102].Clues = src.cats[102].Clues[:6]
	if _, err := NewBuilder(src).Build(context.Background()); !errors.Is(err, ErrTooFewClues) {
		t.Fatalf("expected ErrTooFewClues with 4 usable clues, got %v", err)
	}
}

func TestBuildSourceFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		mutate func(*fakeSource)
	}{
		{"random request fails", func(f *fakeSource) { f.idsErr = boom }},
		{"too few category ids", func(f *fakeSource) { f.ids = f.ids[:NumCategories-1] }},
		{"category request fails", func(f *fakeSource) { f.catErrs = map[int]error{104: boom} }},
		{"category missing", func(f *fakeSource) { delete(f.cats, 101) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource(testTitles, 10)
			tt.mutate(src)

			board, err := NewBuilder(src).Build(context.Background())
			if board != nil {
				t.Fatal("expected no board")
			}
			if !errors.Is(err, ErrNetwork) {
				t.Fatalf("expected ErrNetwork, got %v", err)
			}

			var nerr *NetworkError
			if !errors.As(err, &nerr) {
				t.Fatalf("expected *NetworkError, got %T", err)
			}
		})
	}
}
