package interview

import "math/rand/v2"

// coverImages are the interview card images shipped with the web client.
var coverImages = []string{
	"/covers/adobe.png",
	"/covers/amazon.png",
	"/covers/facebook.png",
	"/covers/hostinger.png",
	"/covers/pinterest.png",
	"/covers/quora.png",
	"/covers/reddit.png",
	"/covers/skype.png",
	"/covers/spotify.png",
	"/covers/telegram.png",
	"/covers/tiktok.png",
	"/covers/yahoo.png",
}

// RandomCover picks one of the bundled cover images.
func RandomCover() string {
	return coverImages[rand.IntN(len(coverImages))]
}
