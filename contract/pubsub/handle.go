package pubsub

// Handle identifies one registration made by Subscribe.
//
// ID names the exact registration. A Handle assembled by hand with a zero ID
// resolves to the first registration of Callback on Channel.
type Handle struct {
	Channel  string
	Callback Callback
	ID       uint64
}
