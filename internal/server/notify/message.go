// Package notify delivers reminder notifications to the devices of their owners.
package notify

import (
	"strings"
	"time"
)

// OccurrenceLayout renders the occurrence time in notification bodies.
const OccurrenceLayout = "Mon, 02 Jan 2006 15:04 MST"

// Data keys of the metadata map sent with every push.
const (
	DataIcon = "icon"
	DataLink = "link"
)

// Message is one push notification addressed to a single device token.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Metadata carries the client deep-link and icon of a reminder's animal.
// Both fields are empty when the reminder has no animal.
type Metadata struct {
	Icon string
	Link string
}

// Data returns the metadata as a push data map.
func (m Metadata) Data() map[string]string {
	return map[string]string{
		DataIcon: m.Icon,
		DataLink: m.Link,
	}
}

// FormatBody joins the reminder description with the occurrence time.
func FormatBody(description string, occurrence time.Time) string {
	when := occurrence.Format(OccurrenceLayout)
	description = strings.TrimSpace(description)
	if description == "" {
		return when
	}
	return description + " " + when
}
