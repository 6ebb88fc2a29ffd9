package translate

import "fmt"

// languageNames maps ISO codes to the names used inside prompts. Unlisted
// codes are passed through as-is; the models handle them fine.
var languageNames = map[string]string{
	"ja": "Japanese",
	"en": "English",
	"ko": "Korean",
	"zh": "Chinese",
	"vi": "Vietnamese",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// translationPrompt asks for a natural, register-preserving translation of
// one spoken line. Kept to a single segment per call so output maps 1:1 to
// subtitle entries.
func translationPrompt(text, sourceLang, targetLang string) string {
	return fmt.Sprintf(
		"Translate the following spoken %s line into natural %s. "+
			"Preserve the tone and conversational nuance. "+
			"Return only the translation, nothing else:\n\n%s",
		languageName(sourceLang), languageName(targetLang), text)
}

// scriptPrompt asks for a short, friendly podcast-style narration script
// summarizing the whole transcript.
func scriptPrompt(transcript, targetLang string) string {
	return fmt.Sprintf(
		"Based on the transcript below, write a short podcast narration script "+
			"in %s that explains the video's main content in an engaging, "+
			"approachable way, using the occasional metaphor. Keep it around "+
			"100 characters and use a natural spoken register.\n\nTranscript:\n%s",
		languageName(targetLang), transcript)
}
