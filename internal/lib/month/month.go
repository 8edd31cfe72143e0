// Package month содержит вспомогательные функции для работы с календарными месяцами.
package month

import (
	"fmt"
	"time"
)

// Label возвращает подпись месяца вида "October 2026".
func Label(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month(), t.Year())
}

// Same сообщает, приходятся ли обе даты на один календарный месяц.
// Даты сравниваются в часовом поясе a.
func Same(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Between считает, сколько календарных месяцев прошло от from до to.
// Отрицательное значение означает, что to раньше from.
func Between(from, to time.Time) int {
	to = to.In(from.Location())
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
