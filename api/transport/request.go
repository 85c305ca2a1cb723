package transport

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TTL      int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	TTL int `json:"ttl_seconds"`
}

type TaskRequest struct {
	Content string `json:"content"`
}
