package model

// Message is a single to-do style entry owned by exactly one user.
//
// Text is exposed as "message" in JSON to match the request body field that
// creates it. Done is stored as INTEGER 0/1 in SQLite; database/sql converts
// it to bool on scan.
type Message struct {
	ID     int64  `json:"id"      db:"id"`
	UserID int64  `json:"userId"  db:"user_id"`
	Text   string `json:"message" db:"message"`
	Done   bool   `json:"done"    db:"done"`
}
