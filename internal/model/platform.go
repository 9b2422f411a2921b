package model

// Platform identifies a supported video site.
type Platform string

const (
	PlatformYouTube  Platform = "YouTube"
	PlatformFacebook Platform = "Facebook"
)

// Platforms returns supported platforms in dropdown order.
func Platforms() []Platform {
	return []Platform{PlatformYouTube, PlatformFacebook}
}

// String returns the display name of the platform
func (p Platform) String() string {
	return string(p)
}

// PlatformNames returns display names for all supported platforms
func PlatformNames() []string {
	names := make([]string, 0, len(Platforms()))
	for _, p := range Platforms() {
		names = append(names, p.String())
	}
	return names
}
