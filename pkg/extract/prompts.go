package extract

import "fmt"

const extractionSystemPrompt = "You are a highly skilled data extraction specialist. Your task is to extract datasets, techniques/methods covered as well as models used from research papers. Methods refer to techniques or approaches used in the research, while models refer to specific implementations or algorithms. Datasets refer to collections of data or benchmarks used for training or evaluation."

const extractionFormatInstruction = `Respond with a JSON array of objects, each with a "name" and a "description" field.`

func datasetPrompt(paperText string) string {
	return fmt.Sprintf("Given the following academic paper text:\n\n%s\n\nExtract datasets and benchmarks used for training or evaluation in the paper.", paperText)
}

func modelPrompt(paperText string) string {
	return fmt.Sprintf("Given the following academic paper text:\n\n%s\n\nExtract the models referenced, such as language models, rerank models, embed models, models that implements a technique or models used for comparison, in the paper. Exclude methods, benchmarks and framework.", paperText)
}

func methodPrompt(paperText string) string {
	return fmt.Sprintf("Given the following academic paper text:\n\n%s\n\nExtract the terms of techniques used in the paper. Exclude language models, rerank models, embed models.", paperText)
}

func taskPrompt(paperText string) string {
	return fmt.Sprintf("Given the following academic paper text:\n\n%s\n\nExtract the tasks/use cases covered in the paper.", paperText)
}
