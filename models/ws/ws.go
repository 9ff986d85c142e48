package wsmodels

// ServerMessage событие, отправляемое клиенту по ws каналу
type ServerMessage struct {
	ToUserID string `json:"-"`
	Time     string `json:"time"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Msg      string `json:"msg"`
}
