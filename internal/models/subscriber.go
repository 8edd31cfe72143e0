package models

import "time"

// Subscriber запись о подписчике. Перезаписывается при повторной подписке.
type Subscriber struct {
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	Tier      Tier      `json:"tier,omitempty"`
	Date      time.Time `json:"date"`
}

// LeadSubscriber данные, передаваемые во внешний сервис рассылок.
type LeadSubscriber struct {
	Email     string
	FirstName string
}
