package domain

// RoomingRow is one line of the rooming list sent to hotels: a traveler in a
// numbered room on a given night. Empty rooms produce a row with a blank
// Traveler so the hotel still sees the booked room.
type RoomingRow struct {
	Night    int
	Date     string // YYYY-MM-DD
	Room     string // computed label, e.g. "Ocean-view Double 2"
	RoomType string
	Capacity int
	Traveler string
}
