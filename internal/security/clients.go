package security

// Client is a machine client allowed to request tokens. Kept in-memory;
// real client storage sits behind the excluded auth service.
type Client struct {
	Secret  string
	Perms   []string
	Enabled bool
}

// Clients maps client_id -> credentials for the token endpoint.
var Clients = map[string]Client{
	"storefront-admin": {
		Secret:  "dev-admin-secret",
		Perms:   []string{"orders.read", "orders.write"},
		Enabled: true,
	},
	"ops-dashboard": {
		Secret:  "dev-ops-secret",
		Perms:   []string{"orders.read"},
		Enabled: true,
	},
}
