package profile

import (
	"time"

	"github.com/google/uuid"
	"github.com/vpnetscape/client/common"
)

// rotateAuthToken returns the rotating auth token to authorize the
// connection attempt, regenerating and persisting it when it is unset
// or older than the token TTL. Profiles without a static token never
// carry an auth token.
func (p *Profile) rotateAuthToken() string {
	if p.Token == "" {
		return ""
	}

	ttl := p.TokenTTL
	if ttl == 0 {
		ttl = common.DefaultTokenTTL
	}

	age := time.Now().Unix() - p.AuthTokenTime
	if age < 0 {
		age = -age
	}

	if p.AuthToken == "" || p.AuthTokenTime == 0 || age > ttl {
		p.AuthToken = uuid.NewString()
		p.AuthTokenTime = time.Now().Unix()
		p.SaveConf(nil)
	}

	return p.AuthToken
}
