package repository

import "fmt"

const sentimentSystemPrompt = "Perform sentiment analysis. Respond ONLY with 'positive', 'negative', or 'neutral'."

// BuildSentimentRequest builds the one-word classification exchange for text.
func BuildSentimentRequest(text string) (system, user string) {
	user = fmt.Sprintf("Analyze sentiment: '%s'\nRespond with one word: positive, negative, or neutral.", text)
	return sentimentSystemPrompt, user
}

// BuildExplanationRequest builds the exchange asking why text got label.
func BuildExplanationRequest(text, label string) (system, user string) {
	system = fmt.Sprintf("You are performing sentiment analysis. The sentiment of the following text has been determined to be '%s'. "+
		"Please explain why you assigned the sentiment to be '%s' in one concise sentence.", label, label)
	user = fmt.Sprintf("Text: '%s'\nExplain why this is %s:", text, label)
	return system, user
}
