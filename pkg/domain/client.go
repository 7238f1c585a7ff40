package domain

// BotIdentity describes the bot account the transport is connected as.
type BotIdentity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
}

// Client is the read-only transport handle handed to commands.
// Like the Update, it is always resolvable and terminates dependency chains.
type Client interface {
	Identity() BotIdentity
}

// StaticClient is a Client that reports a fixed identity.
type StaticClient BotIdentity

// Identity implements Client.
func (c StaticClient) Identity() BotIdentity { return BotIdentity(c) }
