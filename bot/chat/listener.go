package chat

// SessionListener is told about every stored state change and every closed
// session, so dashboards can follow conversations without importing bot packages.
type SessionListener interface {
	OnStateChanged(session Session)
	OnSessionClosed(session Session)
}
