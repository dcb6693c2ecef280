package trip

import "fmt"

const promptTemplate = `Create a comprehensive trip plan:
- Current Location: %s
- Destination: %s
- Trip Duration: %s to %s

Please include:
1. Top attractions to visit
2. Recommended daily itinerary
3. Travel and transportation tips
4. Estimated time at each location
5. Any special local experiences
6. Any other recommendations or tips
`

// BuildPrompt renders the user turn for d. The four values are embedded
// verbatim.
func BuildPrompt(d Details) string {
	return fmt.Sprintf(promptTemplate, d.CurrentLocation, d.Destination, d.StartDate, d.EndDate)
}
