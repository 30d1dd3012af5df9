package model

// PlayerID uniquely identifies a player across reconnects.
// Connections come and go; the PlayerID is the unit of identity.
type PlayerID string

// ClientID identifies a single live connection.
type ClientID string

// Player represents a room member.
// Players are never removed from a room; on disconnect they are marked
// Connected=false so a rejoin with the same ID can resume the same record.
type Player struct {
	ID        PlayerID `json:"id"`
	Name      string   `json:"name"`
	Score     int      `json:"score"`
	Connected bool     `json:"connected"`
	IsHost    bool     `json:"isHost"`
}
