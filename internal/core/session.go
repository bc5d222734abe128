package core

// memberSession implements MemberSession by wrapping a transport endpoint.
type memberSession struct {
	conn SignalConnection
}

func NewMemberSession(conn SignalConnection) MemberSession {
	return &memberSession{conn: conn}
}

func (m *memberSession) Signal() SignalConnection { return m.conn }
