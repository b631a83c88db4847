package dto

type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}
