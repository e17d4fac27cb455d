package metadomain

// AccountInfo são os dados cadastrais da conta de anúncios
type AccountInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountID     string `json:"account_id"`
	AccountStatus int    `json:"account_status"`
	Currency      string `json:"currency"`
	TimezoneName  string `json:"timezone_name"`
	Balance       string `json:"balance"`
}

// TokenInfo resume a resposta do debug_token
type TokenInfo struct {
	Valid     bool     `json:"valid"`
	ExpiresAt int64    `json:"expires_at"`
	Scopes    []string `json:"scopes"`
	AppID     string   `json:"app_id"`
}

// DebugTokenResponse é o corpo bruto do endpoint debug_token
type DebugTokenResponse struct {
	Data struct {
		IsValid   bool     `json:"is_valid"`
		ExpiresAt int64    `json:"expires_at"`
		Scopes    []string `json:"scopes"`
		AppID     string   `json:"app_id"`
	} `json:"data"`
}
