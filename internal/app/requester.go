package app

import (
	"fmt"

	"aperturama/internal/aperture"
)

// ParseRequester builds the requester for a CLI invocation from the --as,
// --link and --password flags. Exactly one of userID and linkCode must be set.
func ParseRequester(userID int64, linkCode, password string) (aperture.Requester, error) {
	switch {
	case userID > 0 && linkCode != "":
		return aperture.Requester{}, fmt.Errorf("--as and --link are mutually exclusive")
	case userID > 0:
		if password != "" {
			return aperture.Requester{}, fmt.Errorf("--password requires --link")
		}
		return aperture.AuthenticatedUser(userID), nil
	case linkCode != "":
		return aperture.AnonymousLink(linkCode, password), nil
	case userID < 0:
		return aperture.Requester{}, fmt.Errorf("invalid user id: %d", userID)
	default:
		return aperture.Requester{}, fmt.Errorf("one of --as or --link is required")
	}
}
