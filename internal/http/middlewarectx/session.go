// Package middlewarectx содержит HTTP middleware витрины: идентификацию
// сессии посетителя, ограничение частоты запросов и метрики.
package middlewarectx

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Session ключ идентификатора сессии в контексте.
const Session Key = "session_id"

// SessionHeader заголовок с идентификатором сессии.
const SessionHeader = "X-Session-ID"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// SessionMiddleware берёт идентификатор сессии из заголовка X-Session-ID.
// Если заголовка нет или он некорректен, выдаётся новый идентификатор.
// Идентификатор всегда возвращается в заголовке ответа.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if !sessionIDPattern.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set(SessionHeader, id)
		ctx := context.WithValue(r.Context(), Session, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID возвращает идентификатор сессии из контекста.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(Session).(string)
	return id, ok && id != ""
}

// WithSession кладёт идентификатор сессии в контекст.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, Session, id)
}
