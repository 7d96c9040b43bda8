// models/rag.go
package models

// Chunk is the unit of embedding and retrieval: a bounded slice of a
// source document's text. Once upserted it is owned by the vector store;
// the pipeline never mutates it afterwards.
type Chunk struct {
	Path    string `json:"path"`
	ChunkID string `json:"chunk_id"`
	Text    string `json:"text"`
}

// SearchHit is one vector-store search result. Score semantics are
// backend-defined (cosine similarity for Qdrant: higher is better).
type SearchHit struct {
	Score   float32 `json:"score"`
	Payload Chunk   `json:"payload"`
}

// Source is the user-facing projection of a SearchHit returned alongside
// a chat answer.
type Source struct {
	Path        string  `json:"path"`
	ChunkID     string  `json:"chunk_id"`
	Score       float32 `json:"score"`
	TextPreview string  `json:"text_preview"`
}

// Turn is one role-tagged message in a conversation. Role is one of
// "user", "assistant" or "system".
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type IngestRequest struct {
	Folder string `json:"folder" binding:"required"`
}

type IngestResult struct {
	Files  int `json:"files"`
	Chunks int `json:"chunks"`
}

type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required,min=1,max=2000"`
	TopK      int    `json:"top_k"`
}

type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
