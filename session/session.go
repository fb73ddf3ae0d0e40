// Package session holds the per-connection authentication state
// machine. It sits in front of the command dispatcher and knows
// nothing about the keyspace: the dispatcher checks the password and
// reports the outcome here, the session decides what state the
// connection is in.
package session

// MaxAuthAttempts is how many wrong passwords a connection may send
// before it is locked and force-closed.
const MaxAuthAttempts = 3

// State of a session.
type State uint8

const (
	// Unauthenticated sessions accept only AUTH.
	Unauthenticated State = iota
	// Authenticated sessions may run any command.
	Authenticated
	// Locked is terminal: the server closes the socket, a reconnect
	// starts over with a fresh session.
	Locked
)

// Session is created once per accepted connection and destroyed with
// it. When the server requires no password the session starts out
// Authenticated.
type Session struct {
	state          State
	failedAttempts uint8
}

// New returns the initial session for a fresh connection.
func New(requiresAuth bool) *Session {
	s := &Session{}
	if !requiresAuth {
		s.state = Authenticated
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Authenticated reports whether commands may be dispatched.
func (s *Session) Authenticated() bool {
	return s.state == Authenticated
}

// Locked reports whether the connection must be closed.
func (s *Session) Locked() bool {
	return s.state == Locked
}

// Grant records a correct AUTH: the session becomes Authenticated and
// the attempt counter resets.
func (s *Session) Grant() {
	if s.state == Locked {
		return
	}
	s.state = Authenticated
	s.failedAttempts = 0
}

// Reject records a wrong AUTH. It returns the attempt count to report
// to the client ("N/3") and whether the session just locked.
func (s *Session) Reject() (attempts uint8, locked bool) {
	if s.state == Locked {
		return s.failedAttempts, true
	}
	s.failedAttempts++
	if s.failedAttempts >= MaxAuthAttempts {
		s.state = Locked
	}
	return s.failedAttempts, s.state == Locked
}

// FailedAttempts returns how many wrong passwords this session sent.
func (s *Session) FailedAttempts() uint8 {
	return s.failedAttempts
}
