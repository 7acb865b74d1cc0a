package domain

import "errors"

// Rejections surfaced to the offending connection as an "error" message.
// The connection stays open in every case except a kick.
var (
	ErrRoomExists      = errors.New("room already exists")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomClosed      = errors.New("room is closed for new joins")
	ErrRoomFull        = errors.New("room is full")
	ErrGameTagConflict = errors.New("game tag already in use in this room")
	ErrBanned          = errors.New("you are banned from this room")

	ErrPermissionDenied = errors.New("permission denied")
	ErrPlayerNotFound   = errors.New("player not found in room")
	ErrCannotKickAdmin  = errors.New("cannot kick the room admin")
	ErrNotBanned        = errors.New("player is not banned")
)
