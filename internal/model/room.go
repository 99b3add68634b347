package model

// Room is a rentable unit with a fixed monthly rent shared by up to
// Capacity occupants.  It corresponds to a row in the `rooms` table.
//
// Fields:
//  ID          – primary key identifier.
//  RoomNumber  – unique human facing room label (e.g. "101").
//  MonthlyRent – rent for the whole room in whole currency units.
//  Capacity    – maximum number of occupants; always positive.
//  Occupied    – number of active tenants currently assigned.
type Room struct {
	ID          uint64 `json:"id"`           // rooms.id
	RoomNumber  string `json:"room_number"`  // rooms.room_number
	MonthlyRent int64  `json:"monthly_rent"` // rooms.monthly_rent
	Capacity    int    `json:"capacity"`     // rooms.capacity
	Occupied    int    `json:"occupied"`     // rooms.occupied
}

// DefaultRoomCapacity is applied when a room is created without an
// explicit capacity.
const DefaultRoomCapacity = 2

// PerPersonRent is the share of the monthly rent owed by one occupant.
// Integer division floors the result: 9001 over 3 occupants is 3000.
// A room with a non-positive capacity owes nothing per person.
func (r Room) PerPersonRent() int64 {
	if r.Capacity <= 0 {
		return 0
	}
	return r.MonthlyRent / int64(r.Capacity)
}

// Vacancies reports how many more tenants the room can take.
func (r Room) Vacancies() int {
	if v := r.Capacity - r.Occupied; v > 0 {
		return v
	}
	return 0
}
