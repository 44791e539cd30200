package types

import "strings"

// Label identifies a node category in the ontology graph. The set is closed:
// every label carries its own natural-key rule and vector-index name, so
// callers never branch on label strings themselves.
type Label string

const (
	LabelPaper   Label = "Paper"
	LabelAuthor  Label = "Author"
	LabelDataset Label = "Dataset"
	LabelModel   Label = "Model"
	LabelMethod  Label = "Method"
	LabelTask    Label = "Task"
	LabelContent Label = "Content"
)

// AllLabels lists every label in the ontology.
func AllLabels() []Label {
	return []Label{LabelPaper, LabelAuthor, LabelDataset, LabelModel, LabelMethod, LabelTask, LabelContent}
}

// EntityLabels lists the semantic entity labels extracted from paper bodies,
// in the order ingestion processes them.
func EntityLabels() []Label {
	return []Label{LabelDataset, LabelModel, LabelMethod, LabelTask}
}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	switch l {
	case LabelPaper, LabelAuthor, LabelDataset, LabelModel, LabelMethod, LabelTask, LabelContent:
		return true
	}
	return false
}

// KeyProperty returns the node property that holds the natural key for this
// label. Papers are keyed by their external identifier, everything else by
// title.
func (l Label) KeyProperty() string {
	if l == LabelPaper {
		return "id"
	}
	return "title"
}

// IndexName returns the name of the label's vector index in the graph store.
func (l Label) IndexName() string {
	return strings.ToLower(string(l)) + "_vector_index"
}

// EdgeType identifies a relationship category between nodes.
type EdgeType string

const (
	EdgeWrittenBy     EdgeType = "WRITTEN_BY"
	EdgeContainsChunk EdgeType = "CONTAINS_CHUNK"
	EdgeUsesDataset   EdgeType = "USES_DATASET"
	EdgeUsesModel     EdgeType = "USES_MODEL"
	EdgeUsesMethod    EdgeType = "USES_METHOD"
	EdgeSolvesTask    EdgeType = "SOLVES_TASK"
	EdgeSimilarTo     EdgeType = "SIMILAR_TO"
)

// RelationFor returns the paper-to-entity relationship used when linking a
// node of this label to the paper it was extracted from.
func (l Label) RelationFor() EdgeType {
	switch l {
	case LabelAuthor:
		return EdgeWrittenBy
	case LabelContent:
		return EdgeContainsChunk
	case LabelDataset:
		return EdgeUsesDataset
	case LabelModel:
		return EdgeUsesModel
	case LabelMethod:
		return EdgeUsesMethod
	case LabelTask:
		return EdgeSolvesTask
	default:
		return ""
	}
}
