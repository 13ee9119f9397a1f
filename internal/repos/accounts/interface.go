package accounts

// Registry maps client ids to their accounts.
//
// GetOrCreate must be atomic: two workers racing on a new client id must end
// up with the same *Account. Accounts are created lazily and never removed
// during a run.
type Registry interface {
	GetOrCreate(clientID uint16) *Account
	Get(clientID uint16) (*Account, bool)
	All() []*Account
}
