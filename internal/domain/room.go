package domain

import "errors"

type (
	RoomID   string
	Filename string
)

var (
	ErrRoomIDEmpty   = errors.New("room id empty")
	ErrFilenameEmpty = errors.New("filename empty")
)

// DefaultFile seeds every freshly created room.
type DefaultFile struct {
	Name    Filename
	Content string
}

func (id RoomID) Validate() error {
	if id == "" {
		return ErrRoomIDEmpty
	}
	return nil
}

// Filenames are opaque; the only server-side rule is non-empty.
func (f Filename) Validate() error {
	if f == "" {
		return ErrFilenameEmpty
	}
	return nil
}
