package domain

// Session is the locally persisted room membership. It is restored on
// startup and destroyed on leave.
type Session struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
	Joined   bool   `json:"joined"`
}
