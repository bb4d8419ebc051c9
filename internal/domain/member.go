package domain

// Member represents a connection's participation meta for a room.
// No transport or lifecycle logic here.
type Member struct {
	DisplayName string
	Color       string
	InVoice     bool
	// Seq is the member's position in join order.
	Seq uint64
}

// NewMember avoids raw literals in the store and keeps construction obvious.
func NewMember(displayName, color string, seq uint64) *Member {
	return &Member{DisplayName: displayName, Color: color, Seq: seq}
}
