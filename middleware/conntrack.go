package middleware

import (
	"log"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"miniverse/util"
)

// ConnTrack logs every incoming SSH session with a key fingerprint instead
// of the full public key.
func ConnTrack() wish.Middleware {
	return func(h ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			util.LogPublicKey(s)
			if pk := s.PublicKey(); pk != nil {
				hash := util.PkToHash(util.PublicKeyToString(pk))
				log.Printf("Session key fingerprint: %s", hash[:16])
			}
			h(s)
		}
	}
}
