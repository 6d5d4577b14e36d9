package models

import "time"

type Room struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	QuestionsCount int       `json:"questionsCount,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type CreateRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

type Question struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
