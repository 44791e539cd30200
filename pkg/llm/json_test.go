package llm

import "testing"

type sampleExtraction struct {
	Datasets []string `json:"datasets"`
	Models   []string `json:"models"`
}

func TestUnmarshalResponse_CleanJSON(t *testing.T) {
	var out sampleExtraction
	err := UnmarshalResponse(`{"datasets": ["ImageNet"], "models": ["ResNet-50"]}`, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Datasets) != 1 || out.Datasets[0] != "ImageNet" {
		t.Errorf("unexpected datasets: %v", out.Datasets)
	}
}

func TestUnmarshalResponse_MarkdownFenced(t *testing.T) {
	content := "```json\n{\"datasets\": [\"SQuAD\"], \"models\": []}\n```"

	var out sampleExtraction
	if err := UnmarshalResponse(content, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Datasets) != 1 || out.Datasets[0] != "SQuAD" {
		t.Errorf("unexpected datasets: %v", out.Datasets)
	}
}

func TestUnmarshalResponse_ProseWrapped(t *testing.T) {
	content := `Here is the extraction you asked for:
{"datasets": ["GLUE"], "models": ["BERT"]}
Let me know if you need anything else.`

	var out sampleExtraction
	if err := UnmarshalResponse(content, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Models) != 1 || out.Models[0] != "BERT" {
		t.Errorf("unexpected models: %v", out.Models)
	}
}

func TestUnmarshalResponse_RepairsMalformedJSON(t *testing.T) {
	// Trailing comma and single quotes, typical model output
	content := `{'datasets': ['WikiText-103',], 'models': []}`

	var out sampleExtraction
	if err := UnmarshalResponse(content, &out); err != nil {
		t.Fatalf("expected repair to recover JSON, got error: %v", err)
	}
	if len(out.Datasets) != 1 || out.Datasets[0] != "WikiText-103" {
		t.Errorf("unexpected datasets: %v", out.Datasets)
	}
}

func TestUnmarshalResponse_NoJSON(t *testing.T) {
	var out sampleExtraction
	if err := UnmarshalResponse("I could not find any entities.", &out); err == nil {
		t.Fatal("expected error for response without JSON")
	}
}
