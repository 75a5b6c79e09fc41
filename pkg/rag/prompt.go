package rag

import (
	"fmt"
	"strings"

	"intelidoc-rag-be/internal/entity"
)

// NoAnswerMessage is returned verbatim when retrieval finds nothing. The
// generation provider is never called in that case.
const NoAnswerMessage = "I couldn't find any relevant information in the documents to answer your question."

const answerPromptTemplate = `You are a helpful assistant that answers questions based on the provided document excerpts.

Context from documents:
%s

Question: %s

Instructions:
- Answer the question using ONLY the information from the context above
- If the context doesn't contain enough information to answer, say so clearly
- Cite which source(s) you used in your answer
- Be concise and accurate

Answer:`

// buildContext renders retrieval hits as numbered source blocks, best match
// first, separated by blank lines.
func buildContext(results []*entity.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for i, res := range results {
		header := fmt.Sprintf("[Source %d: %s", i+1, res.DocumentFilename)
		if res.PageNumber != nil {
			header += fmt.Sprintf(", Page %d", *res.PageNumber)
		}
		header += "]"
		blocks = append(blocks, header+"\n"+res.Content)
	}
	return strings.Join(blocks, "\n\n")
}

func buildPrompt(contextText, question string) string {
	return fmt.Sprintf(answerPromptTemplate, contextText, question)
}
