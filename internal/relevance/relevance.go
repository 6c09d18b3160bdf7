// Package relevance gates questions before retrieval: questions about
// topics the essay corpus covers pass through, obviously off-topic ones are
// declined with a redirect message and suggested alternatives.
//
// The gate is keyword-based only. Questions matching neither list pass
// through — retrieval itself is the judge of marginal questions.
package relevance

import (
	"fmt"
	"strings"
)

// relevantKeywords mark topics the corpus covers.
var relevantKeywords = []string{
	"startup", "startups", "entrepreneur", "entrepreneurship", "founder", "founders",
	"programming", "coding", "software", "development", "technology", "tech",
	"business", "company", "venture", "investment", "investor",
	"essay", "writing", "communication", "education", "learning",
	"hacker", "hackers", "lisp", "arc", "y combinator", "ycombinator",
	"innovation", "growth", "scale", "scaling", "productivity",
}

// irrelevantKeywords mark topics the assistant should decline outright.
var irrelevantKeywords = []string{
	"medical", "health", "doctor", "medicine", "treatment", "diagnosis",
	"legal", "law", "lawyer", "attorney", "lawsuit", "court",
	"personal", "private", "family", "relationship", "dating",
	"current", "news", "politics", "political", "election", "government",
	"support", "help", "fix", "troubleshoot", "install", "download",
}

// Result is the outcome of a relevance check.
type Result struct {
	// Relevant reports whether the question should proceed to retrieval.
	Relevant bool

	// DeclineMessage is the polite redirect shown when Relevant is false.
	DeclineMessage string
}

// Check classifies a question. Irrelevant-keyword hits decline with a
// message naming the off-topic keyword; relevant-keyword hits pass; a
// question matching neither list passes through.
func Check(question string) Result {
	lower := strings.ToLower(question)

	for _, kw := range irrelevantKeywords {
		if strings.Contains(lower, kw) {
			return Result{
				Relevant: false,
				DeclineMessage: fmt.Sprintf(
					"I focus on topics like startups, programming, and essays rather than %s-related questions. Try asking about entrepreneurship, technology, or writing instead.",
					kw),
			}
		}
	}

	for _, kw := range relevantKeywords {
		if strings.Contains(lower, kw) {
			return Result{Relevant: true}
		}
	}

	return Result{Relevant: true}
}

// SuggestedQuestions returns prompts that help users ask on-topic
// questions, shown alongside decline messages.
func SuggestedQuestions() []string {
	return []string{
		"How do I come up with good startup ideas?",
		"What makes a successful founder?",
		"How should early-stage startups approach growth?",
		"What programming languages should I learn?",
		"How do I write better essays?",
		"What should I look for when choosing co-founders?",
		"How do I know if my startup idea is worth pursuing?",
		"What mistakes do first-time entrepreneurs make?",
		"How important is technical skill for startup founders?",
		"What advice would you give to someone learning to program?",
	}
}
