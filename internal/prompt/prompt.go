// Package prompt builds the exact text payloads sent to the generation
// backend. Composition is the mechanism for answer-language correctness:
// every prompt states the required output language explicitly, and there is
// no post-hoc verification.
package prompt

import (
	"strings"

	"translaterag/internal/language"
)

// Translation composes a translation request. When context is non-empty a
// reference-material block precedes the instruction so the model prefers
// domain terminology found in the retrieved chunks. The instruction demands
// translated text only; that is a prompting contract, and trimming the
// response is the only cleanup enforced downstream.
func Translation(text, sourceLang, targetLang, context string) string {
	var b strings.Builder

	if context != "" {
		b.WriteString("Reference material for domain-specific terminology:\n")
		b.WriteString(context)
		b.WriteString("\n\nUse the above reference to ensure accurate translation of specialised terms.\n\n")
	}

	b.WriteString("Translate the following text from ")
	b.WriteString(sourceLang)
	b.WriteString(" to ")
	b.WriteString(targetLang)
	b.WriteString(".\nOnly output the translation, nothing else.\n\n")
	b.WriteString(text)

	return b.String()
}

// Answer composes a question-answering request. With context the model is
// told to answer primarily from the excerpts and may fall back on general
// knowledge when they are insufficient; without context it answers from
// general knowledge directly. Both variants name the answer language,
// annotated with its short code.
func Answer(question, context, sourceLang, targetLang string) string {
	target := language.Annotate(targetLang)
	var b strings.Builder

	if context != "" {
		b.WriteString("You are given document excerpts in ")
		b.WriteString(sourceLang)
		b.WriteString(" and a question.\n")
		b.WriteString("Answer the question primarily using the provided context.\n")
		b.WriteString("If the context does not contain enough information, you may fall back on your general knowledge.\n\n")
		b.WriteString("Context:\n")
		b.WriteString(context)
		b.WriteString("\n\n")
	} else {
		b.WriteString("Answer the following question from your general knowledge.\n\n")
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer in ")
	b.WriteString(target)
	b.WriteString(":")

	return b.String()
}
