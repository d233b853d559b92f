package qa

import "strings"

// Refusal is the fixed string the model is instructed to answer with when
// the grounding context does not contain the answer.
const Refusal = "I don't know based on the provided documents"

// promptTemplate instructs the model to answer only from the supplied
// context and to cite sources. The named placeholders are substituted by
// buildPrompt; there is exactly one template, configuration varies only
// retrieval.
const promptTemplate = `Use the following pieces of context to answer the question at the end.
If you don't know the answer or if the answer is not contained in the context, just say "` + Refusal + `" - don't try to make up an answer.
Always cite the source documents when providing answers.

Context:
{context}

Question: {question}

Answer with citations:`

func buildPrompt(context, question string) string {
	prompt := strings.ReplaceAll(promptTemplate, "{context}", context)
	return strings.ReplaceAll(prompt, "{question}", question)
}
