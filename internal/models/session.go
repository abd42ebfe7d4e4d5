package models

// Session хранит состояние посетителя: вошёл ли он как участник и под каким именем.
// ID — непрозрачный идентификатор из cookie.
type Session struct {
	ID       string `json:"id"`
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

// Clear сбрасывает признак входа. Повторный вызов ничего не меняет.
func (s *Session) Clear() {
	s.LoggedIn = false
	s.Username = ""
}
