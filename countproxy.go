package dbc

// CountProxy gives access to the number of rows changed by the most recent
// update executed on a Connection.
//
// The count is not a snapshot of the statement that returned the proxy: it
// is read from the native handle each time Count is called, so after a
// second update the same proxy reports the second update's count.
type CountProxy struct {
	conn *Connection
}

// Count returns the rows affected by the connection's most recent update.
// On a closed or broken connection it returns that connection's error.
func (p *CountProxy) Count() (int64, error) {
	c := p.conn
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usableLocked(); err != nil {
		return 0, err
	}
	n, err := c.native.RowsAffected()
	if err != nil {
		return 0, c.failLocked("", err)
	}
	return n, nil
}

// Connection returns the connection this proxy is bound to.
func (p *CountProxy) Connection() *Connection { return p.conn }
