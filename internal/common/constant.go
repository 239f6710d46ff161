package common

// DefaultPageSize is the number of reminders read per scan page.
const DefaultPageSize = 100

// DayLayout is the wire format of calendar days exchanged with the UI.
const DayLayout = "2006-01-02"
