package signal

import "time"

// handlePing answers with the server clock so clients can estimate their
// offset before stamping issued_at on control commands.
func (ctl *SignalWSController) handlePing(s *session) {
	ctl.sendJSON(s, struct {
		Type       string `json:"type"`
		ServerTime int64  `json:"server_time"`
	}{"pong", time.Now().UnixMilli()})
}
