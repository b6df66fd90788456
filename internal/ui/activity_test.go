package ui

import (
	"fmt"
	"sync"
	"testing"
)

func TestActivityAppendAndListLimit(t *testing.T) {
	s := NewActivityStore(3)
	for i := 0; i < 5; i++ {
		s.Append("alice", "complete", fmt.Sprintf("#%d", i))
	}
	// only last 3 retained
	got := s.List("alice", 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Detail != "#2" || got[2].Detail != "#4" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if last := s.List("alice", 1); len(last) != 1 || last[0].Detail != "#4" {
		t.Fatalf("List(1) should return newest entry, got %+v", last)
	}
	if len(s.List("bob", 5)) != 0 {
		t.Fatalf("users must not share entries")
	}
}

func TestActivitySetMaxTrims(t *testing.T) {
	s := NewActivityStore(10)
	for i := 0; i < 6; i++ {
		s.Append("", "add", "x")
	}
	s.SetMax(2)
	if s.Len("") != 2 {
		t.Fatalf("expected trim to 2, got %d", s.Len(""))
	}
	s.SetMax(0)
	if s.Len("") != 2 {
		t.Fatalf("SetMax(0) must be ignored")
	}
}

func TestActivityConcurrentAppend(t *testing.T) {
	s := NewActivityStore(1000)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				s.Append("alice", "toggle")
			}
		}()
	}
	wg.Wait()
	if s.Len("alice") != 200 {
		t.Fatalf("expected 200 entries, got %d", s.Len("alice"))
	}
}

func TestJoinDetails(t *testing.T) {
	if JoinDetails([]string{"#1", " ", "buy milk"}) != "#1 · buy milk" {
		t.Fatalf("join failed: %q", JoinDetails([]string{"#1", " ", "buy milk"}))
	}
}
