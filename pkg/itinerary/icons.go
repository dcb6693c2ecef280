// Package itinerary turns the markdown produced by the model into ordered,
// icon-tagged blocks and renders them for a terminal.
//
// Section icons are found by exact, case-sensitive match on the heading text.
// The same heading literals are written into the system prompt by package
// planner, so a rename on either side silently drops the icon. Tests on both
// sides pin the contract.
package itinerary

// Section headings the model is instructed to produce, in order.
const (
	HeadingOverview       = "Overview"
	HeadingDailyItinerary = "Daily Itinerary"
	HeadingTransportation = "Transportation Tips"
	HeadingAttractions    = "Must-See Attractions"
	HeadingLocal          = "Local Experiences"
)

// Sections lists the headings in the order the system prompt asks for them.
var Sections = []string{
	HeadingOverview,
	HeadingDailyItinerary,
	HeadingTransportation,
	HeadingAttractions,
	HeadingLocal,
}

// Icon identifies a section symbol.
type Icon string

const (
	IconNone     Icon = ""
	IconCompass  Icon = "compass"
	IconCalendar Icon = "calendar"
	IconBus      Icon = "bus"
	IconLandmark Icon = "landmark"
	IconSparkles Icon = "sparkles"
)

var iconMap = map[string]Icon{
	HeadingOverview:       IconCompass,
	HeadingDailyItinerary: IconCalendar,
	HeadingTransportation: IconBus,
	HeadingAttractions:    IconLandmark,
	HeadingLocal:          IconSparkles,
}

// IconFor returns the icon for a section heading, or IconNone.
func IconFor(heading string) Icon {
	return iconMap[heading]
}

// Glyph is the terminal symbol drawn for the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconCompass:
		return "🧭"
	case IconCalendar:
		return "📅"
	case IconBus:
		return "🚌"
	case IconLandmark:
		return "🏛"
	case IconSparkles:
		return "✨"
	}
	return ""
}

// Color is the accent colour of the icon as a hex string.
func (i Icon) Color() string {
	switch i {
	case IconCompass:
		return "#60A5FA" // blue-400
	case IconCalendar:
		return "#C084FC" // purple-400
	case IconBus:
		return "#4ADE80" // green-400
	case IconLandmark:
		return "#FACC15" // yellow-400
	case IconSparkles:
		return "#F472B6" // pink-400
	}
	return "#9CA3AF" // gray-400
}
