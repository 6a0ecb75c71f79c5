package domain

// Session holds the bearer token of the signed-in user. The zero value is
// the signed-out session.
type Session struct {
	Token string
}

func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}
