package eval

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/soundprediction/ontograph/pkg/embedder"
	"github.com/soundprediction/ontograph/pkg/utils"
)

var (
	sentenceRe = regexp.MustCompile(`[.!?]\s*`)
	tokenRe    = regexp.MustCompile(`\w+`)
)

// Groundedness reports how many answer sentences are supported by evidence.
type Groundedness struct {
	SupportedClaims     int      `json:"support_claims"`
	TotalClaims         int      `json:"total_claims"`
	GroundedRatio       float64  `json:"grounded_ratio"`
	UnsupportedExamples []string `json:"unsupported_examples"`
}

// Relevance is a token-overlap relevance score with a short reason.
type Relevance struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Completeness reports the fraction of query keywords the answer covers.
type Completeness struct {
	Score   float64  `json:"score"`
	Missing []string `json:"missing"`
}

// Evaluation combines the three judge checks.
type Evaluation struct {
	Groundedness Groundedness `json:"groundedness"`
	Relevance    Relevance    `json:"relevance"`
	Completeness Completeness `json:"completeness"`
}

// RelevanceScore embeds the query and returns its best cosine similarity
// against the candidate answer embeddings.
func RelevanceScore(ctx context.Context, embed embedder.Client, queryText string, answerEmbeddings [][]float32) (float64, error) {
	queryEmbedding, err := embed.EmbedSingle(ctx, queryText)
	if err != nil {
		return 0, fmt.Errorf("embed query: %w", err)
	}

	best := 0.0
	for _, emb := range answerEmbeddings {
		if score := utils.CosineSimilarity(queryEmbedding, emb); score > best {
			best = score
		}
	}
	return best, nil
}

// GroundednessCheck counts answer sentences supported by any evidence
// snippet, using a simple substring heuristic.
func GroundednessCheck(systemAnswer string, evidence []string) Groundedness {
	var sentences []string
	for _, s := range sentenceRe.Split(systemAnswer, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	lowered := make([]string, len(evidence))
	for i, ev := range evidence {
		lowered[i] = strings.ToLower(ev)
	}

	supported := 0
	var unsupported []string
	for _, sentence := range sentences {
		sl := strings.ToLower(sentence)
		found := false
		for _, ev := range lowered {
			if strings.Contains(ev, sl) {
				found = true
				break
			}
		}
		if found {
			supported++
		} else {
			unsupported = append(unsupported, truncate(sentence, 120))
		}
	}

	total := len(sentences)
	if total == 0 {
		total = 1
	}
	if len(unsupported) > 3 {
		unsupported = unsupported[:3]
	}
	return Groundedness{
		SupportedClaims:     supported,
		TotalClaims:         total,
		GroundedRatio:       float64(supported) / float64(total),
		UnsupportedExamples: unsupported,
	}
}

// RelevanceCheck scores token overlap between query and answer.
func RelevanceCheck(queryText, systemAnswer string) Relevance {
	q := tokenSet(queryText, 2)
	a := tokenSet(systemAnswer, 2)
	if len(q) == 0 {
		return Relevance{Score: 0, Reasoning: "no query tokens"}
	}

	inter := 0
	for tok := range q {
		if _, ok := a[tok]; ok {
			inter++
		}
	}
	score := float64(inter) / float64(len(q))
	return Relevance{
		Score:     round3(score),
		Reasoning: fmt.Sprintf("%d/%d query tokens present", inter, len(q)),
	}
}

// CompletenessCheck reports which query keywords the answer misses.
func CompletenessCheck(queryText, systemAnswer string) Completeness {
	var q []string
	for _, tok := range tokenRe.FindAllString(strings.ToLower(queryText), -1) {
		if len(tok) > 3 {
			q = append(q, tok)
		}
	}
	a := tokenSet(systemAnswer, 3)
	if len(q) == 0 {
		return Completeness{Score: 0, Missing: []string{}}
	}

	unique := make(map[string]struct{})
	var missing []string
	for _, tok := range q {
		unique[tok] = struct{}{}
		if _, ok := a[tok]; !ok {
			missing = append(missing, tok)
		}
	}
	score := 1 - float64(len(missing))/float64(len(unique))
	if len(missing) > 6 {
		missing = missing[:6]
	}
	if missing == nil {
		missing = []string{}
	}
	return Completeness{Score: round3(score), Missing: missing}
}

// Judge runs all three checks over a question, answer, and evidence set.
func Judge(queryText, systemAnswer string, evidence []string) Evaluation {
	return Evaluation{
		Groundedness: GroundednessCheck(systemAnswer, evidence),
		Relevance:    RelevanceCheck(queryText, systemAnswer),
		Completeness: CompletenessCheck(queryText, systemAnswer),
	}
}

func tokenSet(s string, minLen int) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range tokenRe.FindAllString(strings.ToLower(s), -1) {
		if len(tok) > minLen {
			out[tok] = struct{}{}
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func round3(f float64) float64 {
	return float64(int(f*1000+0.5)) / 1000
}
