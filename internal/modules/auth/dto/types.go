package dto

type LoginInput struct {
	Email    string
	Password string
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type GoogleInput struct {
	AccessToken string
}

type AuthOutput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Authenticated bool   `json:"authenticated"`
}

type StatusOutput struct {
	Authenticated bool   `json:"authenticated"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Backend       string `json:"backend"`
}
