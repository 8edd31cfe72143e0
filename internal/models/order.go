package models

import "time"

// Buyer покупатель, указанный при оформлении заказа.
type Buyer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Download ссылка на сгенерированный для позиции заказа файл.
// При ошибке генерации Handle и URL пустые, а Error содержит причину.
type Download struct {
	ProductID   string `json:"productId"`
	Handle      string `json:"handle,omitempty"`
	URL         string `json:"url,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Failed сообщает, что файл для позиции не был создан.
func (d Download) Failed() bool {
	return d.Error != ""
}

// Order запись журнала заказов. После создания не изменяется.
type Order struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	Buyer     Buyer      `json:"buyer"`
	Date      time.Time  `json:"date"`
	Downloads []Download `json:"downloads"`
	APIError  string     `json:"apiError,omitempty"` // Некритичная ошибка синхронизации с CRM
}
