package dto

// Notice is the JSON body Alpha Vantage returns instead of CSV data.
// Note and Information carry the rate limit message; ErrorMessage is set for invalid requests.
type Notice struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// RateLimited reports whether the notice is the provider's call limit message.
func (n Notice) RateLimited() bool {
	return n.Note != "" || n.Information != ""
}
