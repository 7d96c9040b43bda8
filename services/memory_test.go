package services

import (
	"fmt"
	"testing"

	"rag-chatbot-platform/models"
)

func TestMemoryAppendAndRead(t *testing.T) {
	m := NewConversationMemory(12)
	m.Append("s1", "hello", "hi there")
	m.Append("s1", "how are you", "fine")

	turns := m.Read("s1")
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	want := []models.Turn{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi there"},
		{Role: models.RoleUser, Content: "how are you"},
		{Role: models.RoleAssistant, Content: "fine"},
	}
	for i, turn := range turns {
		if turn != want[i] {
			t.Fatalf("turn %d = %+v, want %+v", i, turn, want[i])
		}
	}
}

func TestMemoryEvictsOldestFirst(t *testing.T) {
	m := NewConversationMemory(3)
	for i := 0; i < 5; i++ {
		m.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	turns := m.Read("s1")
	if len(turns) != 6 {
		t.Fatalf("expected 2*maxTurns=6 turns, got %d", len(turns))
	}
	if turns[0].Content != "q2" {
		t.Fatalf("oldest retained turn should be q2, got %q", turns[0].Content)
	}
	if turns[5].Content != "a4" {
		t.Fatalf("newest turn should be a4, got %q", turns[5].Content)
	}
}

func TestMemoryUnknownSession(t *testing.T) {
	m := NewConversationMemory(12)
	if turns := m.Read("nope"); len(turns) != 0 {
		t.Fatalf("unknown session should read empty, got %d turns", len(turns))
	}
}

func TestMemoryClearIdempotent(t *testing.T) {
	m := NewConversationMemory(12)
	m.Append("s1", "q", "a")

	m.Clear("s1")
	if turns := m.Read("s1"); len(turns) != 0 {
		t.Fatalf("cleared session should read empty, got %d turns", len(turns))
	}

	// Clearing again, and clearing a never-created session, must not panic.
	m.Clear("s1")
	m.Clear("never-created")
}

func TestMemoryConcurrentAppendsKeepPairs(t *testing.T) {
	m := NewConversationMemory(100)
	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			for i := 0; i < 10; i++ {
				m.Append("s1", fmt.Sprintf("q%d-%d", g, i), fmt.Sprintf("a%d-%d", g, i))
			}
			done <- struct{}{}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	turns := m.Read("s1")
	if len(turns) != 160 {
		t.Fatalf("expected 160 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		wantRole := models.RoleUser
		if i%2 == 1 {
			wantRole = models.RoleAssistant
		}
		if turn.Role != wantRole {
			t.Fatalf("turn %d has role %s, want %s (pairs interleaved)", i, turn.Role, wantRole)
		}
	}
}
