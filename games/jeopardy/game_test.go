/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGameStartsIdle(t *testing.T) {
	g := NewGame()

	if g.Loading() || g.Board() != nil || g.Err() != nil {
		t.Fatal("expected a fresh game to be idle with no board")
	}
	if _, err := g.Reveal(0, 0); !errors.Is(err, ErrNoBoard) {
		t.Fatalf("expected ErrNoBoard, got %v", err)
	}
}

func TestGameBeginDropsBoard(t *testing.T) {
	g := NewGame()
	gen := g.Begin()
	g.Apply(gen, newTestBoard(), nil)

	g.Begin()

	if g.Board() != nil {
		t.Fatal("expected board to be dropped during setup")
	}
	if !g.Loading() {
		t.Fatal("expected game to be loading")
	}
	if _, err := g.Reveal(0, 0); !errors.Is(err, ErrNoBoard) {
		t.Fatalf("expected ErrNoBoard while loading, got %v", err)
	}
}

func TestGameIgnoresStaleSetup(t *testing.T) {
	g := NewGame()

	stale := g.Begin()
	current := g.Begin()

	newer := newTestBoard()
	if !g.Apply(current, newer, nil) {
		t.Fatal("expected current setup to apply")
	}

	older := newTestBoard()
	older.Categories[0].Title = "Stale"
	if g.Apply(stale, older, nil) {
		t.Fatal("expected stale setup to be ignored")
	}
	if g.Board() != newer {
		t.Fatal("stale setup replaced the current board")
	}

	if g.Apply(current, older, nil) {
		t.Fatal("expected a second result for the same setup to be ignored")
	}
}

func TestGameStaleFailureKeepsLoading(t *testing.T) {
	g := NewGame()

	stale := g.Begin()
	g.Begin()

	if g.Apply(stale, nil, ErrNetwork) {
		t.Fatal("expected stale failure to be ignored")
	}
	if !g.Loading() || g.Err() != nil {
		t.Fatal("stale failure changed the current setup")
	}
}

func TestGameFailureRevertsToIdle(t *testing.T) {
	g := NewGame()
	src := newFakeSource(testTitles, CluesPerCategory)
	src.idsErr = errors.New("offline")

	err := g.Restart(context.Background(), NewBuilder(src))
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if g.Loading() || g.Board() != nil {
		t.Fatal("expected failed setup to leave the game idle without a board")
	}
	if !errors.Is(g.Err(), ErrNetwork) {
		t.Fatalf("expected error to be recorded, got %v", g.Err())
	}

	src.idsErr = nil
	if err := g.Restart(context.Background(), NewBuilder(src)); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if g.Err() != nil {
		t.Fatalf("expected error to clear after retry, got %v", g.Err())
	}
}

func TestGameRestartResetsShowing(t *testing.T) {
	g := NewGame()
	b := NewBuilder(newFakeSource(testTitles, 9))

	if err := g.Restart(context.Background(), b); err != nil {
		t.Fatalf("start: %v", err)
	}
	g.Reveal(3, 2)
	g.Reveal(3, 2)
	if s := g.Board().Categories[3].Clues[2].Showing; s != Answer {
		t.Fatalf("expected answer before restart, got %v", s)
	}
	before := g.Board()

	if err := g.Restart(context.Background(), b); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if g.Board() == before {
		t.Fatal("expected restart to build a new board")
	}
	if g.Generation() != 2 {
		t.Fatalf("expected generation 2, got %d", g.Generation())
	}

	for col, cat := range g.Board().Categories {
		for row, clue := range cat.Clues {
			if clue.Showing != Hidden {
				t.Errorf("clue (%d,%d) is %v after restart", col, row, clue.Showing)
			}
		}
	}
}

func TestGameSnapshot(t *testing.T) {
	g := NewGame()
	g.Apply(g.Begin(), newTestBoard(), nil)
	g.Reveal(0, 0)
	g.Reveal(1, 0)
	g.Reveal(1, 0)

	v := g.Snapshot()

	if diff := cmp.Diff(testTitles, v.Titles); diff != "" {
		t.Errorf("unexpected titles (-want +got)\n%s", diff)
	}
	if len(v.Rows) != CluesPerCategory {
		t.Fatalf("expected %d rows, got %d", CluesPerCategory, len(v.Rows))
	}

	wantRow := []CellView{
		{Col: 0, Row: 0, Showing: Question, Text: "Math question 0"},
		{Col: 1, Row: 0, Showing: Answer, Text: "History answer 0"},
		{Col: 2, Row: 0, Showing: Hidden, Text: "?"},
		{Col: 3, Row: 0, Showing: Hidden, Text: "?"},
		{Col: 4, Row: 0, Showing: Hidden, Text: "?"},
		{Col: 5, Row: 0, Showing: Hidden, Text: "?"},
	}
	if diff := cmp.Diff(wantRow, v.Rows[0]); diff != "" {
		t.Errorf("unexpected first row (-want +got)\n%s", diff)
	}
}

func TestGameSnapshotWhileLoading(t *testing.T) {
	g := NewGame()
	g.Begin()

	want := View{Generation: 1, Loading: true, Titles: []string{}, Rows: [][]CellView{}}
	if diff := cmp.Diff(want, g.Snapshot()); diff != "" {
		t.Errorf("unexpected view (-want +got)\n%s", diff)
	}
}
