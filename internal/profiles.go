package internal

import "errors"

// Profile selects how an individual chunk is transcoded.
type Profile string

const ProfilePreview Profile = "preview"
const ProfileH264 Profile = "h264"
const ProfileFast1080p30 Profile = "fast1080p30"

var ErrPanicInvalidProfile = errors.New("invalid profile")

func (p Profile) IsValid() bool {
	switch p {
	case ProfilePreview, ProfileH264, ProfileFast1080p30:
		return true
	default:
		return false
	}
}
