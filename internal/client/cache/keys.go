package cache

// Keys of the resources the client reads.
const (
	NameCurrentUser   = "current-user"
	NameRooms         = "get-rooms"
	NameRoomQuestions = "room-questions"
)

var (
	CurrentUserKey = NewKey(NameCurrentUser)
	RoomsKey       = NewKey(NameRooms)
)

func RoomQuestionsKey(roomID string) Key {
	return NewKey(NameRoomQuestions, roomID)
}
