// Package planner builds the conversation sent to the hosted model for a trip
// prompt.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/papercomputeco/tripplanner/pkg/itinerary"
	"github.com/papercomputeco/tripplanner/pkg/llm"
)

// SystemPrompt fixes the markdown structure of every plan. Its level-2
// headings are the literals itinerary.IconFor looks up.
var SystemPrompt = `You are a professional travel planner. Provide concise, well-structured trip itineraries.
Format your response using the following markdown structure:

## ` + itinerary.HeadingOverview + `
A brief 2-3 sentence summary of the trip.

## ` + itinerary.HeadingDailyItinerary + `
Clear day-by-day breakdown with specific timings.

## ` + itinerary.HeadingTransportation + `
3-4 key travel and transport recommendations.

## ` + itinerary.HeadingAttractions + `
### [Attraction Name]

• Brief description with estimated visit duration
(Repeat for each major attraction)

## ` + itinerary.HeadingLocal + `
• 3-4 unique local activities or experiences
• Best times to experience them
`

// Conversation returns the system and user turns for prompt.
func Conversation(prompt string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
}

// Collect streams a plan for prompt and returns the whole text. onChunk, if
// set, sees every chunk as it arrives.
func Collect(ctx context.Context, streamer llm.Streamer, prompt string, onChunk func(string)) (string, error) {
	stream, err := streamer.Stream(ctx, Conversation(prompt))
	if err != nil {
		return "", fmt.Errorf("open plan stream: %w", err)
	}

	var plan strings.Builder
	for chunk := range llm.Pump(ctx, stream) {
		if chunk.Err != nil {
			return plan.String(), fmt.Errorf("read plan stream: %w", chunk.Err)
		}
		plan.WriteString(chunk.Text)
		if onChunk != nil {
			onChunk(chunk.Text)
		}
	}

	if err := ctx.Err(); err != nil {
		return plan.String(), err
	}
	return plan.String(), nil
}
