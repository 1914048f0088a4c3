package cart

// Identity is the resolved cart owner: a user id, an anonymous session id,
// or neither. At most one field is set.
type Identity struct {
	UserID    string
	SessionID string
}

func (id Identity) IsUser() bool      { return id.UserID != "" }
func (id Identity) IsAnonymous() bool { return id.UserID == "" && id.SessionID != "" }
func (id Identity) IsNone() bool      { return id.UserID == "" && id.SessionID == "" }

// ResolveIdentity applies the owner priority over already-read session
// values: authenticated user first, anonymous cookie second, none last. It
// is pure so the branching is testable without cookies or a store.
func ResolveIdentity(userID, sessionID string) Identity {
	if userID != "" {
		return Identity{UserID: userID}
	}
	if sessionID != "" {
		return Identity{SessionID: sessionID}
	}
	return Identity{}
}
