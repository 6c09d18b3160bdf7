// Package speech prepares answer text for an external text-to-speech
// renderer by inserting pause markers and conversational hesitations. The
// synthesis itself happens outside this repo; the markers (<pause>,
// <long_pause>) and interjections are the contract with that renderer.
package speech

import (
	"fmt"
	"regexp"
	"strings"
)

// Pause scale bounds. Scale 0 returns text unchanged; each level up to
// MaxScale layers additional pauses on top of the previous levels.
const (
	MinScale = 0
	MaxScale = 5

	// DefaultScale is the moderate setting used when none is configured.
	DefaultScale = 2
)

var (
	sentenceSplit = regexp.MustCompile(`([.!?]+)`)

	thinkSentence     = regexp.MustCompile(`\. ([A-Z][^.]*think[^.]*\.)`)
	importantSentence = regexp.MustCompile(`\. ([A-Z][^.]*important[^.]*\.)`)
	transitionWord    = regexp.MustCompile(`\. (But|However|So|Now|Actually)`)
	becauseSentence   = regexp.MustCompile(`\. ([A-Z][^.]*because[^.]*\.)`)
	keyPoint          = regexp.MustCompile(`\. (The key|The important|What matters)`)
	sentenceEnd       = regexp.MustCompile(`\.(\s+[A-Z])`)
	insightSentence   = regexp.MustCompile(`\. ([A-Z][^.]*insight[^.]*\.)`)
	believeSentence   = regexp.MustCompile(`\. ([A-Z][^.]*believe[^.]*\.)`)
	startupSentence   = regexp.MustCompile(`\. ([A-Z][^.]*startup[^.]*\.)`)
	founderSentence   = regexp.MustCompile(`\. ([A-Z][^.]*founder[^.]*\.)`)
	midClause         = regexp.MustCompile(`, (and|but|so)`)

	pauseMarkers = regexp.MustCompile(`<pause>|<long_pause>`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// AddPauses layers pause markers onto text according to scale (0–5).
// Levels are cumulative: scale 3 applies the light, moderate, and regular
// passes in order.
func AddPauses(text string, scale int) (string, error) {
	if scale < MinScale || scale > MaxScale {
		return "", fmt.Errorf("speech: pause scale must be between %d and %d, got %d", MinScale, MaxScale, scale)
	}
	if scale == 0 {
		return text, nil
	}

	enhanced := text
	if scale >= 1 {
		enhanced = addLightPauses(enhanced)
	}
	if scale >= 2 {
		enhanced = addModeratePauses(enhanced)
	}
	if scale >= 3 {
		enhanced = addRegularPauses(enhanced)
	}
	if scale >= 4 {
		enhanced = addFrequentPauses(enhanced)
	}
	if scale >= 5 {
		enhanced = addMaximumPauses(enhanced)
	}

	return enhanced, nil
}

// addLightPauses marks every 3rd sentence ending.
func addLightPauses(text string) string {
	sentences := splitSentences(text)
	var b strings.Builder
	for i, s := range sentences {
		b.WriteString(s)
		if (i+1)%3 == 0 && i < len(sentences)-1 {
			b.WriteString(" <pause>")
		}
	}
	return b.String()
}

// addModeratePauses adds a hesitation after every 2nd sentence and
// thoughtful pauses before reflective sentences.
func addModeratePauses(text string) string {
	sentences := splitSentences(text)
	var b strings.Builder
	for i, s := range sentences {
		b.WriteString(s)
		if (i+1)%2 == 0 && i < len(sentences)-1 {
			b.WriteString(" Hmm.")
		}
	}

	enhanced := b.String()
	enhanced = thinkSentence.ReplaceAllString(enhanced, ". Well, $1")
	enhanced = importantSentence.ReplaceAllString(enhanced, ". <pause> $1")
	return enhanced
}

// addRegularPauses marks transition words and causal sentences.
func addRegularPauses(text string) string {
	enhanced := transitionWord.ReplaceAllString(text, ". <pause> $1")
	enhanced = becauseSentence.ReplaceAllString(enhanced, ". Hmm, $1")
	enhanced = keyPoint.ReplaceAllString(enhanced, ". <pause> $1")
	return enhanced
}

// addFrequentPauses marks all sentence endings and questions.
func addFrequentPauses(text string) string {
	enhanced := sentenceEnd.ReplaceAllString(text, ". <pause>$1")
	enhanced = insightSentence.ReplaceAllString(enhanced, ". Hmm, $1")
	enhanced = believeSentence.ReplaceAllString(enhanced, ". You see, $1")
	enhanced = strings.ReplaceAll(enhanced, "? ", "? <pause> ")
	return enhanced
}

// addMaximumPauses upgrades to long pauses and layered hesitations.
func addMaximumPauses(text string) string {
	enhanced := sentenceEnd.ReplaceAllString(text, ". <long_pause>$1")
	enhanced = strings.ReplaceAll(enhanced, "? ", "? Hmm, well, ")
	enhanced = startupSentence.ReplaceAllString(enhanced, ". Hmm, hmm, $1")
	enhanced = founderSentence.ReplaceAllString(enhanced, ". Well, you see, $1")
	enhanced = midClause.ReplaceAllString(enhanced, ", <pause> $1")
	return enhanced
}

// RemovePauses strips every pause marker and collapses the leftover
// whitespace, for text-only output of pause-annotated answers.
func RemovePauses(text string) string {
	cleaned := pauseMarkers.ReplaceAllString(text, "")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// ScaleDescription describes what a pause scale does, for CLI help output.
func ScaleDescription(scale int) string {
	switch scale {
	case 0:
		return "No pauses added"
	case 1:
		return "Light pauses (every 3rd sentence ending)"
	case 2:
		return "Moderate pauses (every 2nd sentence ending)"
	case 3:
		return "Regular pauses (most sentence endings)"
	case 4:
		return "Frequent pauses (all sentence endings)"
	case 5:
		return "Maximum pauses (multiple hesitations and longer pauses)"
	default:
		return "Invalid scale"
	}
}

// splitSentences splits on terminal punctuation runs, keeping the
// punctuation attached. Unlike the chunking segmenter this does not require
// trailing whitespace — pause placement wants every ending, including the
// last sentence of the text.
func splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	puncts := sentenceSplit.FindAllString(text, -1)

	var result []string
	for i, part := range parts {
		s := part
		if i < len(puncts) {
			s += puncts[i]
		}
		if strings.TrimSpace(s) != "" {
			result = append(result, s)
		}
	}
	return result
}
