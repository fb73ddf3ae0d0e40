package redis

// Reply is the serializable result of one command.
type Reply interface {
	ToBytes() []byte
}

// Connection represents a connection with a client.
type Connection interface {
	Write([]byte) (int, error)
	Close() error
	RemoteAddr() string
	Name() string
}
