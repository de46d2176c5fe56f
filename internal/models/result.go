package models

type SubmitRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Phone string `validate:"required,valid_phone"`
}

type SubmitResponse struct {
	OK       bool     `json:"ok"`
	Message  string   `json:"message"`
	Score    int      `json:"score"`
	Decision Decision `json:"decision"`
	Warnings []string `json:"warnings"`
	File     string   `json:"file"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	OK    bool   `json:"ok"`
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
