package matrix

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsError(t *testing.T) {
	err := &Error{Code: ErrCodeForbidden, Message: "no", StatusCode: 403}

	if !IsError(err, ErrCodeForbidden) {
		t.Error("expected IsError to match M_FORBIDDEN")
	}
	if IsError(err, ErrCodeNotFound) {
		t.Error("IsError matched the wrong code")
	}
	if IsError(errors.New("plain"), ErrCodeForbidden) {
		t.Error("IsError matched a non-matrix error")
	}

	wrapped := fmt.Errorf("invite failed: %w", err)
	if !IsError(wrapped, ErrCodeForbidden) {
		t.Error("expected IsError to unwrap")
	}
}

func TestIsAlreadyInRoom(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"already in the room", &Error{Code: ErrCodeForbidden, Message: "@u:s is already in the room."}, true},
		{"already a member", &Error{Code: ErrCodeUnknown, Message: "User is already a member"}, true},
		{"already joined", &Error{Code: ErrCodeUnknown, Message: "already joined"}, true},
		{"already invited", &Error{Code: ErrCodeUnknown, Message: "@u:s is already invited"}, true},
		{"unrelated forbidden", &Error{Code: ErrCodeForbidden, Message: "You are not allowed"}, false},
		{"plain error", errors.New("already in the room"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsAlreadyInRoom(tc.err); got != tc.want {
				t.Errorf("IsAlreadyInRoom = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsNotInRoom(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"not in room", &Error{Code: ErrCodeForbidden, Message: "The target user_id is not in room !r:s"}, true},
		{"not a member", &Error{Code: ErrCodeForbidden, Message: "@u:s is not a member of the room"}, true},
		{"unrelated", &Error{Code: ErrCodeForbidden, Message: "insufficient power level"}, false},
		{"plain error", errors.New("not in room"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNotInRoom(tc.err); got != tc.want {
				t.Errorf("IsNotInRoom = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsRoomGone(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"not found code", &Error{Code: ErrCodeNotFound, Message: "Room not found", StatusCode: 404}, true},
		{"unknown room", &Error{Code: ErrCodeForbidden, Message: "Unknown room"}, true},
		{"does not exist", &Error{Code: ErrCodeUnknown, Message: "Room does not exist"}, true},
		{"no known servers", &Error{Code: ErrCodeUnknown, Message: "No known servers"}, true},
		{"forbidden only", &Error{Code: ErrCodeForbidden, Message: "not allowed"}, false},
		{"plain error", errors.New("unknown room"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRoomGone(tc.err); got != tc.want {
				t.Errorf("IsRoomGone = %v, want %v", got, tc.want)
			}
		})
	}
}
