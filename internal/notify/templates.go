package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*.txt templates/*.html
var templateFS embed.FS

// Kind 通知種類，對應 templates/ 下同名的 .txt 與 .html
type Kind string

const (
	KindLoanCreated  Kind = "loan_created"
	KindLoanReturned Kind = "loan_returned"
	KindReminder     Kind = "reminder"
	KindOverdue      Kind = "overdue"
)

var subjects = map[Kind]string{
	KindLoanCreated:  "Loan confirmation - %s",
	KindLoanReturned: "Return confirmation - %s",
	KindReminder:     "Return reminder - %s",
	KindOverdue:      "Overdue loan - %s",
}

// Data 模板可用的欄位
type Data struct {
	LoanID      int
	FirstName   string
	BookTitle   string
	LoanedAt    time.Time
	DueAt       time.Time
	ReturnedAt  *time.Time
	DaysLeft    int
	DaysOverdue int
}

var funcs = map[string]any{
	"date": func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return t.UTC().Format("2006-01-02")
		case *time.Time:
			if t == nil {
				return "-"
			}
			return t.UTC().Format("2006-01-02")
		}
		return fmt.Sprint(v)
	},
}

var (
	textTemplates = texttemplate.Must(texttemplate.New("").Funcs(texttemplate.FuncMap(funcs)).ParseFS(templateFS, "templates/*.txt"))
	htmlTemplates = htmltemplate.Must(htmltemplate.New("").Funcs(htmltemplate.FuncMap(funcs)).ParseFS(templateFS, "templates/*.html"))
)

// Render 產生指定種類的信件內容，To 由呼叫端填入
func Render(k Kind, d Data) (Message, error) {
	subject, ok := subjects[k]
	if !ok {
		return Message{}, fmt.Errorf("Render: unknown kind %q", k)
	}
	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, string(k)+".txt", d); err != nil {
		return Message{}, fmt.Errorf("Render: %w", err)
	}
	if err := htmlTemplates.ExecuteTemplate(&html, string(k)+".html", d); err != nil {
		return Message{}, fmt.Errorf("Render: %w", err)
	}
	return Message{
		Subject: fmt.Sprintf(subject, d.BookTitle),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
