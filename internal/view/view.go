// Package view рендерит страницы входа и регистрации и HTML-тела писем.
// Все шаблоны встроены в бинарник.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/magabrotheeeer/member-gate/internal/models"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.ParseFS(files, "templates/*.html"))

// LoginPage — данные формы входа.
type LoginPage struct {
	SiteTitle   string
	Error       string
	Success     string
	RegisterURL string // пустой, если регистрация выключена
}

// RegisterPage — данные формы регистрации.
type RegisterPage struct {
	SiteTitle string
	Error     string
	LoginURL  string
}

type newPostMail struct {
	SiteTitle string
	Item      models.ContentItem
}

type welcomeMail struct {
	SiteTitle string
	Username  string
}

type mailLayout struct {
	SiteTitle string
	Body      template.HTML
}

// RenderLogin пишет страницу входа в w.
func RenderLogin(w io.Writer, p LoginPage) error {
	return execute(w, "login", p)
}

// RenderRegister пишет страницу регистрации в w.
func RenderRegister(w io.Writer, p RegisterPage) error {
	return execute(w, "register", p)
}

// WriteLogin отдаёт страницу входа со статусом status.
func WriteLogin(w http.ResponseWriter, status int, p LoginPage) error {
	return write(w, status, "login", p)
}

// WriteRegister отдаёт страницу регистрации со статусом status.
func WriteRegister(w http.ResponseWriter, status int, p RegisterPage) error {
	return write(w, status, "register", p)
}

// NewPostSubject — тема письма о новой публикации.
func NewPostSubject(title string) string {
	return "New Post Published: " + title
}

// WelcomeSubject — тема приветственного письма.
func WelcomeSubject(siteTitle string) string {
	return "Welcome to " + siteTitle
}

// NewPostBody рендерит тело письма о новой публикации.
func NewPostBody(siteTitle string, item models.ContentItem) (string, error) {
	return executeString("mail-new-post", newPostMail{SiteTitle: siteTitle, Item: item})
}

// WelcomeBody рендерит тело приветственного письма.
func WelcomeBody(siteTitle, username string) (string, error) {
	return executeString("mail-welcome", welcomeMail{SiteTitle: siteTitle, Username: username})
}

// MailLayout оборачивает уже отрендеренное тело письма в общий макет сайта.
func MailLayout(siteTitle, body string) (string, error) {
	return executeString("mail-layout", mailLayout{
		SiteTitle: siteTitle,
		Body:      template.HTML(body), // тело уже отрендерено шаблонами этого пакета
	})
}

func execute(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("view.%s: %w", name, err)
	}
	return nil
}

// write рендерит страницу целиком до отправки заголовков.
// При ошибке шаблона посетитель получает 500, ошибка возвращается для лога.
func write(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := execute(&buf, name, data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func executeString(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := execute(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
