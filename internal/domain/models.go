package domain

// Case statuses.
const (
	CaseStatusOpen       = "open"
	CaseStatusInProgress = "in_progress"
	CaseStatusClosed     = "closed"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Case struct {
	CaseID      string `json:"case_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
}

// CasePatch carries optional field deltas for a case update. The store
// enumerates the fixed set of updatable fields; nil means "leave unchanged".
type CasePatch struct {
	Name        *string
	Description *string
	Status      *string
}

type Evidence struct {
	EvidenceID string `json:"id"`
	CaseID     string `json:"case_id"`
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	UploadedAt int64  `json:"uploaded_at"`
	ChunkCount int64  `json:"chunk_count"`
}

// Chunk is the unit of embedding, scoring and retrieval. Timestamp is the
// canonical ISO-8601 string extracted from the chunk text, or "" when no
// pattern matched.
type Chunk struct {
	ChunkID        string    `json:"chunk_id"`
	CaseID         string    `json:"case_id"`
	EvidenceID     string    `json:"evidence_id"`
	Index          int       `json:"chunk_index"`
	Text           string    `json:"text"`
	Timestamp      string    `json:"timestamp,omitempty"`
	RiskScore      float64   `json:"risk_score"`
	Embedding      []float32 `json:"-"`
	RelevanceBoost float64   `json:"relevance_boost,omitempty"`
}

// Entity is a de-duplicated (name, type) pair shared across cases.
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Retrieval sources.
const (
	SourceVector = "vector"
	SourceGraph  = "graph"
)

// RetrievedChunk is one element of a retrieval set. SharedEntities is
// populated only for graph-expanded results.
type RetrievedChunk struct {
	ChunkID        string   `json:"chunk_id"`
	Text           string   `json:"text"`
	Score          float64  `json:"score"`
	Source         string   `json:"source"`
	SharedEntities []string `json:"shared_entities,omitempty"`
}

type Answer struct {
	QueryID          string   `json:"query_id"`
	Answer           string   `json:"answer"`
	CitedChunks      []string `json:"cited_chunks"`
	ReasoningSummary string   `json:"reasoning_summary"`
	ConfidenceScore  float64  `json:"confidence_score"`
}

// ExplanationChunk reconstructs one RETRIEVED edge of a persisted query trace.
type ExplanationChunk struct {
	ChunkID  string   `json:"chunk_id"`
	Text     string   `json:"text"`
	Score    float64  `json:"score"`
	Source   string   `json:"source"`
	Entities []string `json:"entities"`
}

type Explanation struct {
	QueryID  string             `json:"query_id"`
	Question string             `json:"question"`
	Chunks   []ExplanationChunk `json:"retrieved_chunks"`
}

// Feedback types.
const (
	FeedbackPositive = "positive"
	FeedbackNegative = "negative"
)

type Feedback struct {
	ChunkID string `json:"chunk_id"`
	Type    string `json:"feedback_type"`
	Comment string `json:"comment,omitempty"`
}

// TimelineRow is the raw per-chunk aggregate the store returns for timeline
// construction; classification happens in the analytics engine.
type TimelineRow struct {
	ChunkID   string
	Timestamp string
	Text      string
	RiskScore float64
	Filename  string
	Entities  []string
}

type TimelineEvent struct {
	ID          string   `json:"id"`
	Timestamp   string   `json:"timestamp"`
	EventType   string   `json:"event_type"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Entities    []string `json:"entities"`
	RiskScore   float64  `json:"risk_score"`
}

// EntityStats is the raw per-entity aggregate for lead prioritization.
// AvgRisk is nil when none of the mentioning chunks carried a risk score.
type EntityStats struct {
	EntityID        string
	Name            string
	Type            string
	MentionCount    int
	AvgRisk         *float64
	ConnectionCount int
	LastSeen        string
	ChunkTexts      []string
}

type Lead struct {
	ID          string  `json:"id"`
	Entity      string  `json:"entity"`
	EntityType  string  `json:"entity_type"`
	RiskScore   float64 `json:"risk_score"`
	Reason      string  `json:"reason"`
	Connections int     `json:"connections"`
	LastSeen    string  `json:"last_seen"`
}

type NetworkNode struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

type NetworkEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// MindmapRow is one observed (evidence, entity type, entity name) triple.
// EntityType/EntityName may be empty for evidence with no extracted entities.
type MindmapRow struct {
	Evidence   string
	EntityType string
	EntityName string
}

type MindmapNode struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Type     string         `json:"type"`
	Children []*MindmapNode `json:"children"`
}

type Mindmap struct {
	Root *MindmapNode `json:"root"`
}

// EntitySummary is the per-case entity mention count listing.
type EntitySummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Mentions int64  `json:"mentions"`
}

// EntityDetail is a single entity with its evidence provenance.
type EntityDetail struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	MentionCount  int64    `json:"mention_count"`
	EvidenceFiles []string `json:"evidence_files"`
}
