package models

// Mail — исходящее письмо. HTML содержит только тело сообщения,
// общий макет с заголовком сайта добавляет отправитель.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
