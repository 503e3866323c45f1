package websocket

import "sync"

// connections maps each username to its live client. A newer connection replaces an older one.
type connections struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func newConnections() *connections {
	return &connections{clients: make(map[string]*client)}
}

// add registers c and returns the client it replaced, if any.
func (that *connections) add(c *client) *client {
	that.mu.Lock()
	defer that.mu.Unlock()

	previous := that.clients[c.username]
	that.clients[c.username] = c

	return previous
}

// remove drops c only if it is still the registered client for its username.
func (that *connections) remove(c *client) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.clients[c.username] != c {
		return false
	}

	delete(that.clients, c.username)

	return true
}

func (that *connections) get(username string) (*client, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	c, ok := that.clients[username]

	return c, ok
}

// push delivers to username if connected and reports whether it was.
func (that *connections) push(username, action string, payload any) bool {
	c, ok := that.get(username)
	if !ok {
		return false
	}

	c.push(action, payload)

	return true
}
