// Package web embeds the browser front end served by the relay.
package web

import "embed"

// Assets holds index.html: the trip form, the streaming fetch of /api/chat
// and the itinerary renderer. Its heading-to-icon table mirrors
// itinerary.IconFor.
//
//go:embed index.html
var Assets embed.FS
