package protocol

// UnknownErrReply is the fallback when an executor panics.
type UnknownErrReply struct{}

var unknownErrBytes = []byte("ERR unknown\r\n")

func (r *UnknownErrReply) ToBytes() []byte {
	return unknownErrBytes
}

func (r *UnknownErrReply) Error() string {
	return "ERR unknown"
}

// ArgNumErrReply represents a wrong number of arguments for a command
type ArgNumErrReply struct {
	Cmd string
}

func MakeArgNumErrReply(cmd string) *ArgNumErrReply {
	return &ArgNumErrReply{Cmd: cmd}
}

func (r *ArgNumErrReply) ToBytes() []byte {
	return []byte("ERR wrong number of arguments for '" + r.Cmd + "' command\r\n")
}

func (r *ArgNumErrReply) Error() string {
	return "ERR wrong number of arguments for '" + r.Cmd + "' command"
}

// WrongTypeErrReply is returned when a command meets a key holding an
// incompatible value variant.
type WrongTypeErrReply struct{}

var wrongTypeErrBytes = []byte("ERR WRONGTYPE Operation against a key holding the wrong kind of value\r\n")

func (r *WrongTypeErrReply) ToBytes() []byte {
	return wrongTypeErrBytes
}

func (r *WrongTypeErrReply) Error() string {
	return "ERR WRONGTYPE Operation against a key holding the wrong kind of value"
}

// NotIntegerErrReply is returned for INCR/DECR on a non-numeric value.
type NotIntegerErrReply struct{}

var notIntegerErrBytes = []byte("ERR value is not an integer or out of range\r\n")

func (r *NotIntegerErrReply) ToBytes() []byte {
	return notIntegerErrBytes
}

func (r *NotIntegerErrReply) Error() string {
	return "ERR value is not an integer or out of range"
}

// SyntaxErrReply represents a malformed option in an otherwise known
// command, e.g. SET k v EX notanumber.
type SyntaxErrReply struct{}

var syntaxErrBytes = []byte("ERR syntax error\r\n")

func MakeSyntaxErrReply() *SyntaxErrReply {
	return &SyntaxErrReply{}
}

func (r *SyntaxErrReply) ToBytes() []byte {
	return syntaxErrBytes
}

func (r *SyntaxErrReply) Error() string {
	return "ERR syntax error"
}

// AuthRequiredErrReply rejects commands on an unauthenticated session.
type AuthRequiredErrReply struct{}

var authRequiredErrBytes = []byte("ERR authentication required\r\n")

func (r *AuthRequiredErrReply) ToBytes() []byte {
	return authRequiredErrBytes
}

func (r *AuthRequiredErrReply) Error() string {
	return "ERR authentication required"
}
